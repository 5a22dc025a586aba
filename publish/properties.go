package publish

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/toothbrush/md2conf/confluence"
	"github.com/toothbrush/md2conf/converter"
)

const editorProperty = "editor"

// propertyUpdates works out which content properties need writing. An
// existing "editor" property is moved to the requested editor version unless
// the caller sets it explicitly. Requested properties bump the version of an
// existing property or are created at version 1, in key order.
func propertyUpdates(existing []confluence.Property, requested map[string]string, editor converter.EditorVersion) []confluence.PropertyUpdate {
	byKey := make(map[string]confluence.Property, len(existing))
	for _, prop := range existing {
		byKey[prop.Key] = prop
	}

	var updates []confluence.PropertyUpdate

	if _, override := requested[editorProperty]; !override {
		if prop, ok := byKey[editorProperty]; ok {
			want := editor.String()
			if v, _ := prop.StringValue(); v != want {
				updates = append(updates, confluence.PropertyUpdate{
					ID:      prop.ID,
					Key:     editorProperty,
					Value:   want,
					Version: prop.Version.Number + 1,
				})
			}
		}
	}

	keys := maps.Keys(requested)
	sort.Strings(keys)
	for _, key := range keys {
		update := confluence.PropertyUpdate{Key: key, Value: requested[key], Version: 1}
		if prop, ok := byKey[key]; ok {
			update.ID = prop.ID
			update.Version = prop.Version.Number + 1
		}
		updates = append(updates, update)
	}
	return updates
}

func (p *Publisher) updateProperties(ctx context.Context, pageID int, opts Options) error {
	existing, err := p.Client.GetPageProperties(ctx, pageID)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	updates := propertyUpdates(existing, opts.Properties, opts.Editor)
	if len(updates) == 0 {
		return nil
	}

	p.logger().Printf("updating %d page content properties...", len(updates))
	for _, u := range updates {
		if err := p.Client.UpdatePageProperty(ctx, pageID, u); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
	}
	return nil
}
