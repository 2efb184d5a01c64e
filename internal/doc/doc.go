// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package doc provides functions to generate Markdown reports of subscription inventories.
package doc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/Azure/azmgmt"
	"github.com/Azure/azmgmt/to"
	"github.com/nao1215/markdown"
)

var (
	ErrReportGenerationFailed = fmt.Errorf("failed to generate report")
)

// InventoryMd writes a Markdown report of inv to w.
func InventoryMd(ctx context.Context, w io.Writer, inv *azmgmt.Inventory) error {
	if inv == nil {
		return errors.Join(ErrReportGenerationFailed, errors.New("inventory is nil"))
	}

	md := markdown.NewMarkdown(w)

	md = inventoryMdTitle(md, inv)
	md = inventoryMdGroups(md, inv)
	md = inventoryMdResourceTypes(md, inv)
	md = md.HorizontalRule()

	for _, g := range inv.Groups {
		if err := ctx.Err(); err != nil {
			return errors.Join(ErrReportGenerationFailed, err)
		}

		md = inventoryMdGroup(md, g)
	}

	if err := md.Build(); err != nil {
		return errors.Join(ErrReportGenerationFailed, err)
	}

	return nil
}

func inventoryMdTitle(md *markdown.Markdown, inv *azmgmt.Inventory) *markdown.Markdown {
	return md.H1f("Subscription %s", inv.SubscriptionID).LF().
		PlainTextf("Collected at %s: %d resources in %d resource groups.",
			inv.CollectedAt.UTC().Format("2006-01-02 15:04:05 MST"), inv.ResourceCount(), len(inv.Groups)).
		LF()
}

func inventoryMdGroups(md *markdown.Markdown, inv *azmgmt.Inventory) *markdown.Markdown {
	if len(inv.Groups) == 0 {
		return md.Note("The subscription has no resource groups.").LF()
	}

	t := markdown.TableSet{
		Header: []string{"Resource group", "Location", "Resources", "Deployments"},
		Rows:   [][]string{},
	}

	for _, g := range inv.Groups {
		t.Rows = append(t.Rows, []string{
			g.Name(),
			g.Location(),
			strconv.Itoa(len(g.Resources)),
			strconv.Itoa(len(g.Deployments)),
		})
	}

	return md.H2("Resource groups").LF().Table(t).LF()
}

func inventoryMdResourceTypes(md *markdown.Markdown, inv *azmgmt.Inventory) *markdown.Markdown {
	counts := resourceTypeCounts(inv)
	if len(counts) == 0 {
		return md
	}

	types := make([]string, 0, len(counts))
	for k := range counts {
		types = append(types, k)
	}

	slices.Sort(types)

	t := markdown.TableSet{
		Header: []string{"Resource type", "Count"},
		Rows:   [][]string{},
	}

	for _, typ := range types {
		t.Rows = append(t.Rows, []string{typ, strconv.Itoa(counts[typ])})
	}

	return md.H2("Resource types").LF().
		Table(t).LF().
		CodeBlocks("mermaid", mermaidFromInventory(inv)).LF()
}

func inventoryMdGroup(md *markdown.Markdown, g *azmgmt.GroupInventory) *markdown.Markdown {
	md = md.H2("resource group `" + g.Name() + "`").LF()

	if tags := tagsString(to.StringMap(g.Group.Tags)); tags != "" {
		md = md.PlainTextf("Tags: %s", tags).LF()
	}

	if len(g.Resources) == 0 {
		md = md.PlainText("No resources.").LF()
	}

	for _, typ := range g.ResourceTypes() {
		res := g.ResourcesOfType(typ)

		t := markdown.TableSet{
			Header: []string{"Name", "Location", "Kind", "SKU", "Tags"},
			Rows:   [][]string{},
		}

		for _, r := range res {
			sku := ""
			if r.SKU != nil {
				sku = to.ValOrZero(r.SKU.Name)
			}

			t.Rows = append(t.Rows, []string{
				to.ValOrZero(r.Name),
				to.ValOrZero(r.Location),
				to.ValOrZero(r.Kind),
				sku,
				tagsString(to.StringMap(r.Tags)),
			})
		}

		md = md.H3f("%s (%d)", typ, len(res)).LF().Table(t).LF()
	}

	if len(g.Deployments) > 0 {
		items := make([]string, 0, len(g.Deployments))
		for _, d := range g.Deployments {
			items = append(items, fmt.Sprintf("%s (%s)", to.ValOrZero(d.Name), d.ProvisioningState()))
		}

		md = md.Details(fmt.Sprintf("%d deployments", len(g.Deployments)), "\n- "+strings.Join(items, "\n- ")).LF()
	}

	return md
}

func resourceTypeCounts(inv *azmgmt.Inventory) map[string]int {
	counts := make(map[string]int)

	for _, g := range inv.Groups {
		for _, r := range g.Resources {
			counts[to.ValOrZero(r.Type)]++
		}
	}

	return counts
}

func mermaidFromInventory(inv *azmgmt.Inventory) string {
	sb := strings.Builder{}
	sb.WriteString("flowchart LR\n")

	for i, g := range inv.Groups {
		fmt.Fprintf(&sb, "  rg%d[\"%s\"]\n", i, g.Name())

		for j, typ := range g.ResourceTypes() {
			fmt.Fprintf(&sb, "  rg%d --> rg%dt%d[\"%s (%d)\"]\n", i, i, j, typ, len(g.ResourcesOfType(typ)))
		}
	}

	return sb.String()
}

func tagsString(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + tags[k]
	}

	return strings.Join(pairs, ", ")
}
