package models

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/casualjim/loom/pkg/slogx"
	"github.com/casualjim/loom/provider"
	"github.com/fogfish/opts"
	"github.com/tidwall/gjson"
)

// HTTPClient overrides the client used for discovery calls.
var HTTPClient = opts.ForName[Discovery, *http.Client]("client")

// Discovery lists the model identifiers a provider endpoint advertises, for
// populating pickers. It shares the adapters' request plumbing but never
// issues generation calls.
type Discovery struct {
	client *http.Client
	base   provider.Base
	log    *slog.Logger
}

func NewDiscovery(cfg provider.Config, options ...opts.Option[Discovery]) *Discovery {
	d := &Discovery{
		log: slog.Default().With(slogx.LoggerName("models")),
	}
	if err := opts.Apply(d, options); err != nil {
		panic(err)
	}
	d.base = provider.NewBase(cfg, d.client)
	return d
}

var versionSegment = regexp.MustCompile(`/v\d+[a-z0-9]*`)

// modelsURL resolves the listing URL: a base URL already addressing /models
// is used verbatim, one with a version segment gets /models appended, a bare
// host gets /v1/models.
func modelsURL(baseURL string) string {
	trimmed := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(trimmed, "/models") {
		return trimmed
	}
	if versionSegment.MatchString(trimmed) {
		return trimmed + "/models"
	}
	return trimmed + "/v1/models"
}

// List fetches the model identifiers the endpoint advertises, in the order
// the vendor returned them. Both listing shapes are probed: the OpenAI
// data[].id array and the Gemini models[].name array, whose "models/" prefix
// is stripped.
func (d *Discovery) List(ctx context.Context) ([]string, error) {
	url := modelsURL(d.base.Config().BaseURL)
	raw, err := d.base.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	jv := gjson.ParseBytes(raw)
	var ids []string
	switch {
	case jv.Get("data").IsArray():
		for _, item := range jv.Get("data").Array() {
			id := item.Get("id").String()
			if id == "" {
				id = item.Get("name").String()
			}
			if id != "" {
				ids = append(ids, id)
			}
		}
	case jv.Get("models").IsArray():
		for _, item := range jv.Get("models").Array() {
			if name := item.Get("name").String(); name != "" {
				ids = append(ids, strings.TrimPrefix(name, "models/"))
			}
		}
	}
	d.log.DebugContext(ctx, "listed models", slog.String("url", url), slog.Int("count", len(ids)))
	return ids, nil
}
