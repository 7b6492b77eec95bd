package fl

import "fmt"

// Broker topic layout. The channel segment isolates one training session's
// traffic on a shared broker.
const (
	joinTopicTemplate       = "flock/%s/clients/join"
	aliveTopicTemplate      = "flock/%s/clients/alive"
	fitTopicTemplate        = "flock/%s/clients/%s/fit"
	evaluateTopicTemplate   = "flock/%s/clients/%s/evaluate"
	fitResultTemplate       = "flock/%s/results/fit"
	evaluateResultTemplate  = "flock/%s/results/evaluate"
	failureTopicTemplate    = "flock/%s/results/failure"
	resultsWildcardTemplate = "flock/%s/results/#"
)

func JoinTopic(channel string) string {
	return fmt.Sprintf(joinTopicTemplate, channel)
}

func AliveTopic(channel string) string {
	return fmt.Sprintf(aliveTopicTemplate, channel)
}

func FitTopic(channel, clientID string) string {
	return fmt.Sprintf(fitTopicTemplate, channel, clientID)
}

func EvaluateTopic(channel, clientID string) string {
	return fmt.Sprintf(evaluateTopicTemplate, channel, clientID)
}

func FitResultTopic(channel string) string {
	return fmt.Sprintf(fitResultTemplate, channel)
}

func EvaluateResultTopic(channel string) string {
	return fmt.Sprintf(evaluateResultTemplate, channel)
}

func FailureTopic(channel string) string {
	return fmt.Sprintf(failureTopicTemplate, channel)
}

func ResultsWildcard(channel string) string {
	return fmt.Sprintf(resultsWildcardTemplate, channel)
}
