package cfg

type Cfg struct {
	// Wiki configuration
	APIURL         string
	WikiURL        string
	Username       string
	Password       string
	RequestTimeout int

	// Merge configuration
	TemplatesFile  string
	DryRun         bool
	CreateIfAbsent bool
	FindCloseDates bool
	EditLimit      int
	Summary        string

	// Page selection
	FeedURL string
	Titles  []string

	// Application configuration
	DBPath            string
	WorkerCount       int
	MaxRetries        int
	SchedulerInterval int
	Serve             bool
	Port              string
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
