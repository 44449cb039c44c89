package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background pipeline processing.
// This interface provides task queue management, worker pool control and
// stage scheduling.
// Example usage:
//
//	scheduler := NewScheduler(configCache, ingester, generator, themeGenerator, ideator, publisher)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewGeneratePassTask(generator))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
