package main

import (
	"bytes"
	"cmp"
	"fmt"
	"os"
	"slices"
	"text/template"

	"github.com/keshon/dea-bot/internal/config"
	"github.com/keshon/dea-bot/internal/game"
	v "github.com/keshon/dea-bot/internal/version"
)

type CmdInfo struct {
	Name         string
	Description  string
	Category     string
	Requirements string
}

func main() {
	rules, err := config.LoadRules("rules.yaml")
	if err != nil {
		panic(err)
	}
	g := game.New(nil, rules)

	sections := make(map[string][]CmdInfo)
	for _, cmd := range g.Commands() {
		info := CmdInfo{
			Name:         "$" + cmd.Usage(),
			Description:  cmd.Description(),
			Category:     cmd.Category(),
			Requirements: game.RequirementNames(g.Requirements(cmd)),
		}
		sections[info.Category] = append(sections[info.Category], info)
	}

	categories := make([]string, 0, len(sections))
	for cat, cmds := range sections {
		categories = append(categories, cat)
		slices.SortFunc(cmds, func(a, b CmdInfo) int { return cmp.Compare(a.Name, b.Name) })
	}
	slices.SortFunc(categories, func(a, b string) int {
		return cmp.Compare(config.CategoryWeights[a], config.CategoryWeights[b])
	})

	tmplData, err := os.ReadFile("README.md.tmpl")
	if err != nil {
		panic(err)
	}

	tmpl, err := template.New("readme").Parse(string(tmplData))
	if err != nil {
		panic(err)
	}

	var buf bytes.Buffer
	for _, cat := range categories {
		fmt.Fprintf(&buf, "### %s\n\n", cat)
		for _, c := range sections[cat] {
			fmt.Fprintf(&buf, "* **`%s`**\n  %s\n  Requires: %s\n\n", c.Name, c.Description, c.Requirements)
		}
	}

	data := map[string]any{
		"AppName":         v.AppName,
		"AppDescription":  v.AppDescription,
		"CommandSections": buf.String(),
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		panic(err)
	}

	if err := os.WriteFile("README.md", out.Bytes(), 0644); err != nil {
		panic(err)
	}
}
