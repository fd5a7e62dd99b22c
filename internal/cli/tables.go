package cli

import (
	"io"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tansive/portainer-mcp/pkg/portainer"
)

// endpointRow is the table view of a Portainer endpoint descriptor.
type endpointRow struct {
	ID     int    `json:"Id"`
	Name   string `json:"Name"`
	Type   int    `json:"Type"`
	URL    string `json:"URL"`
	Status int    `json:"Status"`
}

// stackRow is the table view of a Portainer stack descriptor.
type stackRow struct {
	ID         int    `json:"Id"`
	Name       string `json:"Name"`
	Type       int    `json:"Type"`
	EndpointID int    `json:"EndpointId"`
	Status     int    `json:"Status"`
}

var endpointTypes = map[int]string{
	1: "docker",
	2: "agent",
	3: "azure",
	4: "edge-agent",
	5: "kubernetes",
	6: "kubernetes-agent",
	7: "kubernetes-edge-agent",
}

var stackTypes = map[int]string{
	1: "swarm",
	2: "compose",
	3: "kubernetes",
}

func lookup(names map[int]string, v int) string {
	if name, ok := names[v]; ok {
		return name
	}
	return "unknown"
}

func endpointStatus(v int) string {
	switch v {
	case 1:
		return "up"
	case 2:
		return "down"
	}
	return "unknown"
}

func stackStatus(v int) string {
	switch v {
	case 1:
		return "active"
	case 2:
		return "inactive"
	}
	return "unknown"
}

// renderTable writes rows under a title-cased header.
func renderTable(w io.Writer, header []string, rows []table.Row) {
	title := cases.Title(language.English)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.SetOutputMirror(w)

	hdr := make(table.Row, 0, len(header))
	for _, h := range header {
		hdr = append(hdr, title.String(h))
	}
	tw.AppendHeader(hdr)
	tw.AppendSeparator()
	tw.AppendRows(rows)
	tw.Render()
}

func renderEndpoints(w io.Writer, objs []portainer.Object) error {
	var endpoints []endpointRow
	if err := portainer.DecodeInto(objs, &endpoints); err != nil {
		return err
	}
	rows := make([]table.Row, 0, len(endpoints))
	for _, e := range endpoints {
		rows = append(rows, table.Row{e.ID, e.Name, lookup(endpointTypes, e.Type), e.URL, endpointStatus(e.Status)})
	}
	renderTable(w, []string{"id", "name", "type", "url", "status"}, rows)
	return nil
}

func renderStacks(w io.Writer, objs []portainer.Object) error {
	var stacks []stackRow
	if err := portainer.DecodeInto(objs, &stacks); err != nil {
		return err
	}
	rows := make([]table.Row, 0, len(stacks))
	for _, s := range stacks {
		rows = append(rows, table.Row{s.ID, s.Name, lookup(stackTypes, s.Type), s.EndpointID, stackStatus(s.Status)})
	}
	renderTable(w, []string{"id", "name", "type", "endpoint", "status"}, rows)
	return nil
}

func renderContainers(w io.Writer, objs []portainer.Object) error {
	summaries, err := portainer.ContainerSummaries(objs)
	if err != nil {
		return err
	}
	rows := make([]table.Row, 0, len(summaries))
	for _, c := range summaries {
		rows = append(rows, table.Row{shortID(c.ID), containerName(c), c.Image, c.State, c.Status})
	}
	renderTable(w, []string{"id", "name", "image", "state", "status"}, rows)
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func containerName(c container.Summary) string {
	if len(c.Names) == 0 {
		return ""
	}
	return strings.TrimPrefix(c.Names[0], "/")
}
