package config

type StorageConfig interface {
	GetSQLServerDSN() string
	GetQueueConnectionString() string
	GetQueueName() string
	GetNotifyEndpoint() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetSQLServerDSN() string {
	return GetEnv("SQLSERVER_DSN", "")
}

func (Storage) GetQueueConnectionString() string {
	return GetEnv("AZURE_QUEUE_CONNECTION_STRING", "")
}

func (Storage) GetQueueName() string {
	return GetEnv("AZURE_QUEUE_NAME", "registration-emails")
}

// GetNotifyEndpoint is the sibling service told about new accounts.
func (Storage) GetNotifyEndpoint() string {
	return GetEnv("NOTIFY_ENDPOINT", "")
}
