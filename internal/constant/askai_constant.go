package constant

const (
	// Default title for sessions created before the first question is asked.
	UnnamedSessionTitle = "Unnamed session"

	// Toast copy shown by the surface layer.
	ToastAnswerCopied       = "Answer copied to clipboard"
	ToastSessionDeleted     = "Conversation deleted"
	ToastAnswerFailed       = "The assistant could not answer. The question was kept so you can retry."
	ToastHistoryUnavailable = "Previous conversations could not be loaded"

	// Durable consumer of the toast relay worker.
	ConsumerToastRelay = "toast-relay-worker"

	// Subject filter covering every domain event.
	SubjectAllEvents = "events.>"
)
