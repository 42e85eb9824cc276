package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samvad-hq/items-fetcher/internal/config"
	"github.com/samvad-hq/items-fetcher/pkg/publishers"
	"gopkg.in/yaml.v3"
)

// view is the rendered shape of one snapshot.
type view struct {
	Endpoint string      `json:"endpoint" yaml:"endpoint"`
	Stale    bool        `json:"stale" yaml:"stale"`
	Count    int         `json:"count" yaml:"count"`
	Groups   []groupView `json:"groups" yaml:"groups"`
}

type groupView struct {
	ListID *int64     `json:"listId" yaml:"listId"`
	Items  []itemView `json:"items" yaml:"items"`
}

type itemView struct {
	ID   *int64  `json:"id" yaml:"id"`
	Name *string `json:"name" yaml:"name"`
}

func newView(evt publishers.Event) view {
	v := view{Endpoint: evt.Endpoint, Stale: evt.Stale, Count: evt.Count, Groups: make([]groupView, 0, len(evt.Groups))}
	for _, g := range evt.Groups {
		gv := groupView{ListID: g.ListID, Items: make([]itemView, 0, len(g.Items))}
		for _, it := range g.Items {
			gv.Items = append(gv.Items, itemView{ID: it.ID, Name: it.Name})
		}
		v.Groups = append(v.Groups, gv)
	}
	return v
}

func render(w io.Writer, format string, evt publishers.Event) error {
	v := newView(evt)

	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
