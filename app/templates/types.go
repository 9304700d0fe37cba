package templates

// Config lists the templates the bot recognizes, one entry per canonical
// template.
type Config struct {
	Templates []Entry `yaml:"templates"`
}

type Entry struct {
	Kind    string   `yaml:"kind"`
	Title   string   `yaml:"title"`
	Aliases []string `yaml:"aliases"`
}

// AggregateTitle is the full title of the article history template.
func (c *Config) AggregateTitle() string {
	for _, entry := range c.Templates {
		if entry.Kind == "article-history" {
			return "Template:" + entry.Title
		}
	}
	return "Template:Article history"
}
