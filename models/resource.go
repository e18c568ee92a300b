package models

// ResourceType classifies what kind of resource a logged request touched.
// The set is open by default; deployments can close it via
// requestlog.Config.ResourceTypes.
type ResourceType string

const (
	ResourceUser    ResourceType = "user"
	ResourcePayment ResourceType = "payment"
)
