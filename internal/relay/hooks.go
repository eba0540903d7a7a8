package relay

import (
	"fmt"

	"github.com/rosautodoc/rosautodoc/internal/nodedoc"
)

// registerPublisher(callerId, topic, topicType, callerApi)
func (r *Relay) hookRegisterPublisher(params []any) error {
	callerID, topic, topicType, err := registrationArgs("registerPublisher", params)
	if err != nil {
		return err
	}
	if r.filterPubs.Has(topic) {
		return nil
	}
	r.writer.AddPub(callerID, topic, topicType)
	return nil
}

// registerSubscriber(callerId, topic, topicType, callerApi)
func (r *Relay) hookRegisterSubscriber(params []any) error {
	callerID, topic, topicType, err := registrationArgs("registerSubscriber", params)
	if err != nil {
		return err
	}
	if r.filterSubs.Has(topic) {
		return nil
	}
	r.writer.AddSub(callerID, topic, topicType)
	return nil
}

// registerService(callerId, service, serviceApi, callerApi). The service
// type is not carried in this call, so it is recorded as unknown.
func (r *Relay) hookRegisterService(params []any) error {
	callerID, ok := stringArg(params, 0)
	if !ok {
		return fmt.Errorf("registerService: missing caller id")
	}
	service, ok := stringArg(params, 1)
	if !ok {
		return fmt.Errorf("registerService: missing service name")
	}
	if r.filterServices.Has(service) {
		return nil
	}
	r.writer.AddService(callerID, service, nodedoc.UnknownType)
	return nil
}

// getParam/hasParam(callerId, key) and setParam(callerId, key, value) all
// prove the node touches the parameter; the value is irrelevant.
func (r *Relay) hookParam(params []any) error {
	callerID, ok := stringArg(params, 0)
	if !ok {
		return fmt.Errorf("param call: missing caller id")
	}
	key, ok := stringArg(params, 1)
	if !ok {
		return fmt.Errorf("param call: missing parameter key")
	}
	if r.filterParams.Has(key) {
		return nil
	}
	r.writer.AddParam(callerID, key)
	return nil
}

func registrationArgs(method string, params []any) (callerID, topic, topicType string, err error) {
	var ok bool
	if callerID, ok = stringArg(params, 0); !ok {
		return "", "", "", fmt.Errorf("%s: missing caller id", method)
	}
	if topic, ok = stringArg(params, 1); !ok {
		return "", "", "", fmt.Errorf("%s: missing topic", method)
	}
	if topicType, ok = stringArg(params, 2); !ok {
		return "", "", "", fmt.Errorf("%s: missing topic type", method)
	}
	return callerID, topic, topicType, nil
}
