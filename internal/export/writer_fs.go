// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Azure/azmgmt"
	"github.com/Azure/azmgmt/resources"
	"github.com/Azure/azmgmt/to"
)

// InventoryWriter writes an Inventory to a target location.
type InventoryWriter interface {
	// Write exports the inventory to outDir. Each resource group becomes a directory holding
	// the group itself, one JSON file per resource named after the resource plus a type suffix,
	// and one JSON file per deployment.
	Write(ctx context.Context, inv *azmgmt.Inventory, outDir string) error
}

// FSWriter writes an Inventory to the local filesystem.
type FSWriter struct{}

// NewFSWriter creates a new filesystem writer.
func NewFSWriter() *FSWriter { return &FSWriter{} }

var _ InventoryWriter = (*FSWriter)(nil)

const (
	// GroupFileName is the file holding the resource group in its directory.
	GroupFileName = "resourcegroup.json"
	// SummaryFileName is the file holding the inventory summary at the root of outDir.
	SummaryFileName = "inventory.json"

	fileSuffixDeployment = ".deployment.json"
)

const (
	dirPerm          = 0o755
	filePerm         = 0o644
	controlCharLimit = 0x20
)

// Summary is written to SummaryFileName.
type Summary struct {
	SubscriptionID string         `json:"subscriptionId"`
	CollectedAt    string         `json:"collectedAt"`
	ResourceCount  int            `json:"resourceCount"`
	Groups         map[string]int `json:"resourceGroups"`
}

// Write implements InventoryWriter.
func (w *FSWriter) Write(ctx context.Context, inv *azmgmt.Inventory, outDir string) error {
	if inv == nil {
		return errors.New("fswriter.write: inventory is nil")
	}

	if strings.TrimSpace(outDir) == "" {
		return errors.New("fswriter.write: outDir is empty")
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return fmt.Errorf("fswriter.write: creating outDir: %w", err)
	}

	summary := Summary{
		SubscriptionID: inv.SubscriptionID,
		CollectedAt:    inv.CollectedAt.UTC().Format("2006-01-02T15:04:05Z"),
		ResourceCount:  inv.ResourceCount(),
		Groups:         make(map[string]int, len(inv.Groups)),
	}

	for _, g := range inv.Groups {
		if err := w.writeGroup(ctx, g, outDir); err != nil {
			return err
		}

		summary.Groups[g.Name()] = len(g.Resources)
	}

	if err := writeJSONFile(filepath.Join(outDir, SummaryFileName), summary); err != nil {
		return fmt.Errorf("fswriter.write: writing summary: %w", err)
	}

	return nil
}

func (w *FSWriter) writeGroup(ctx context.Context, g *azmgmt.GroupInventory, base string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}

	if g == nil || g.Group == nil {
		return errors.New("fswriter.writeGroup: resource group is nil")
	}

	dir := filepath.Join(base, sanitizeFilename(g.Name()))
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("fswriter.writeGroup: creating dir %q: %w", dir, err)
	}

	if err := writeJSONFile(filepath.Join(dir, GroupFileName), g.Group); err != nil {
		return fmt.Errorf("writing resource group %q: %w", g.Name(), err)
	}

	if err := w.writeResources(ctx, dir, g.Resources); err != nil {
		return err
	}

	return w.writeDeployments(ctx, dir, g.Deployments)
}

func (w *FSWriter) writeResources(ctx context.Context, dir string, list []*resources.GenericResource) error {
	list = append([]*resources.GenericResource(nil), list...)
	sort.SliceStable(list, func(i, j int) bool { return to.ValOrZero(list[i].Name) < to.ValOrZero(list[j].Name) })

	for _, r := range list {
		if err := ctxErr(ctx); err != nil {
			return err
		}

		name := to.ValOrZero(r.Name)

		file := filepath.Join(dir, ResourceFileName(name, to.ValOrZero(r.Type)))
		if err := writeJSONFile(file, r); err != nil {
			return fmt.Errorf("writing resource %q: %w", name, err)
		}
	}

	return nil
}

func (w *FSWriter) writeDeployments(ctx context.Context, dir string, list []*resources.Deployment) error {
	for _, d := range list {
		if err := ctxErr(ctx); err != nil {
			return err
		}

		name := to.ValOrZero(d.Name)

		file := filepath.Join(dir, sanitizeFilename(name)+fileSuffixDeployment)
		if err := writeJSONFile(file, d); err != nil {
			return fmt.Errorf("writing deployment %q: %w", name, err)
		}
	}

	return nil
}

// ResourceFileName returns the file name of a resource: its name followed by the lowercase resource type
// without the provider namespace, for example "web1.sites.json" for Microsoft.Web/sites.
func ResourceFileName(name, resourceType string) string {
	suffix := strings.ToLower(resourceType)
	if _, rest, ok := strings.Cut(suffix, "/"); ok {
		suffix = rest
	}

	suffix = strings.ReplaceAll(suffix, "/", ".")
	if suffix == "" {
		suffix = "resource"
	}

	return sanitizeFilename(name) + "." + sanitizeFilename(suffix) + ".json"
}

func sanitizeFilename(s string) string {
	if s == "" {
		return "unnamed"
	}

	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	)
	s = replacer.Replace(s)
	s = strings.Map(func(r rune) rune {
		if r < controlCharLimit {
			return '_'
		}

		return r
	}, s)

	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == ".." {
		return "unnamed"
	}

	return s
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func writeJSONFile(finalPath string, v any) error {
	dir := filepath.Dir(finalPath)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create dir for %q: %w", finalPath, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp file for %q: %w", finalPath, err)
	}

	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode json for %q: %w", finalPath, err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp for %q: %w", finalPath, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp for %q: %w", finalPath, err)
	}

	if err := os.Rename(tmpName, finalPath); err != nil {
		return fmt.Errorf("rename temp to final for %q: %w", finalPath, err)
	}

	if err := os.Chmod(finalPath, filePerm); err != nil {
		return fmt.Errorf("chmod final for %q: %w", finalPath, err)
	}

	return nil
}
