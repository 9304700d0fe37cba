package database

type PageRepository interface {
	RecordPage(page Page) error
	GetPage(title string) (*Page, error)
	GetStats() (*Stats, error)
}

type CheckpointRepository interface {
	GetCheckpoint(name string) (string, error)
	SetCheckpoint(name, value string) error
}
