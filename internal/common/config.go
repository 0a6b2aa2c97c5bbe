package common

import (
	"github.com/dtnitsch/line-index/models"
	"github.com/urfave/cli/v2"
)

// InputFlags are shared by every command that reads a document.
func InputFlags() []cli.Flag {
	def := models.DefaultIndexConfig()
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML file with settings; explicit flags win"},
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "document path, - for stdin, or an http(s) URL"},
		&cli.StringFlag{Name: "input-format", Value: def.InputFormat, Usage: "text, html or article"},
		&cli.IntFlag{Name: "chunk-size", Value: def.ChunkSize, Usage: "target chunk size in bytes"},
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: def.Format, Usage: "output format: text, json or yaml"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write output to this file instead of stdout"},
		&cli.StringFlag{Name: "cache-dir", Usage: "cache fetched URLs in this directory"},
		&cli.DurationFlag{Name: "max-age", Value: def.MaxAge, Usage: "maximum age of a cached URL"},
		&cli.DurationFlag{Name: "timeout", Value: def.Timeout, Usage: "HTTP timeout for URL inputs"},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
	}
}

// ConfigFromContext loads --config if given and applies every flag that was
// set explicitly. A first positional argument stands in for --input.
func ConfigFromContext(c *cli.Context) (*models.IndexConfig, error) {
	cfg := models.DefaultIndexConfig()
	if c.IsSet("config") {
		loaded, err := models.LoadConfig(c.String("config"))
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("input") {
		cfg.Input = c.String("input")
	} else if c.Args().Present() {
		cfg.Input = c.Args().First()
	}

	setString(c, "input-format", &cfg.InputFormat)
	setString(c, "format", &cfg.Format)
	setString(c, "output", &cfg.Output)
	setString(c, "cache-dir", &cfg.CacheDir)
	setString(c, "words-file", &cfg.WordsFile)
	setString(c, "store", &cfg.Store)
	setString(c, "sqlite-path", &cfg.SQLitePath)
	setString(c, "redis-addr", &cfg.RedisAddr)
	setInt(c, "chunk-size", &cfg.ChunkSize)
	setInt(c, "workers", &cfg.Workers)
	setInt(c, "partitions", &cfg.Partitions)
	setInt(c, "reduce-batch", &cfg.ReduceBatch)
	setInt(c, "limit", &cfg.Limit)
	setInt(c, "top", &cfg.Top)
	setInt(c, "suggest", &cfg.Suggest)
	if c.IsSet("skip-stopwords") {
		cfg.SkipStopwords = c.Bool("skip-stopwords")
	}
	if c.IsSet("combine") {
		cfg.Combine = c.Bool("combine")
	}
	if c.IsSet("max-age") {
		cfg.MaxAge = c.Duration("max-age")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("words") {
		cfg.Words = c.StringSlice("words")
	}

	return cfg, cfg.Validate()
}

func setString(c *cli.Context, name string, dst *string) {
	if c.IsSet(name) {
		*dst = c.String(name)
	}
}

func setInt(c *cli.Context, name string, dst *int) {
	if c.IsSet(name) {
		*dst = c.Int(name)
	}
}
