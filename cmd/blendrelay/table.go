package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/fedorg/blendrelay/internal/domain"
	"github.com/fedorg/blendrelay/internal/ports"
	"github.com/fedorg/blendrelay/pkg/relay"
)

// renderDryRun lists the messages a send of batch would produce, sorted
// by address.
func renderDryRun(batch relay.Batch, encoder ports.MessageEncoder) (string, error) {
	names := make([]string, 0, batch.Size())
	for name := range batch.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fmt.Sprintf("port %d", batch.Port))
	tw.AppendHeader(table.Row{"Address", "Value", "Bytes"})

	total := 0
	for _, name := range names {
		msg := domain.NewMessage(name, batch.Values[name])
		buf, err := encoder.Encode(msg)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", name, err)
		}
		total += len(buf)
		tw.AppendRow(table.Row{
			msg.Address,
			strconv.FormatFloat(float64(msg.Value), 'g', -1, 32),
			len(buf),
		})
	}
	tw.AppendFooter(table.Row{fmt.Sprintf("%d datagrams", len(names)), "", total})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render(), nil
}
