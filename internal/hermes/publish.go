package hermes

// PublishClassification announces the classes of one product.
func PublishClassification(c Client, evt ClassificationEvent) error {
	return c.Publish(SubjectClassificationCompleted(evt.ProductID), evt)
}

// PublishBatchCompleted announces a finished batch run.
func PublishBatchCompleted(c Client, evt BatchCompletedEvent) error {
	return c.Publish(SubjectBatchCompleted(evt.RunID.String()), evt)
}

// PublishPopulationReloaded announces a population swap.
func PublishPopulationReloaded(c Client, evt PopulationReloadedEvent) error {
	return c.Publish(SubjectPopulationReloaded, evt)
}

// RequestReload asks running services to reload dataset from their store.
// An empty dataset selects each service's configured one.
func RequestReload(c Client, dataset string) error {
	return c.Publish(SubjectPopulationReload, PopulationReloadEvent{Dataset: dataset})
}
