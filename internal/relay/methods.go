package relay

// MasterMethods is the full ROS master API surface. Every method listed here
// is exposed by the relay and forwarded to the upstream master; a subset
// additionally has a pre-forward hook (see hooks.go).
var MasterMethods = []string{
	"getPid",
	"registerService",
	"unregisterService",
	"registerSubscriber",
	"unregisterSubscriber",
	"registerPublisher",
	"unregisterPublisher",
	"lookupNode",
	"getPublishedTopics",
	"getTopicTypes",
	"getSystemState",
	"getUri",
	"lookupService",
	"deleteParam",
	"setParam",
	"getParam",
	"searchParam",
	"subscribeParam",
	"unsubscribeParam",
	"hasParam",
	"getParamNames",
}

// methodHelp carries the system.methodHelp text for hooked methods. Methods
// without an entry report an empty help string, like the original master.
var methodHelp = map[string]string{
	"registerPublisher":  "Register the caller as a publisher of the topic.",
	"registerSubscriber": "Register the caller as a subscriber to the topic.",
	"registerService":    "Register the caller as a provider of the service.",
	"getParam":           "Retrieve a parameter value from the server.",
	"setParam":           "Set a parameter on the server.",
	"hasParam":           "Check whether a parameter is stored on the server.",
}
