package constant

// Logger module names
const (
	ModuleAuth      = "AuthService"
	ModuleChat      = "ChatService"
	ModuleSummary   = "SummaryService"
	ModuleRetention = "RetentionService"
	ModulePublisher = "PublisherService"
	ModuleAudit     = "EventAuditService"
	ModuleServer    = "Server"
)
