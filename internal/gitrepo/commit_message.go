package gitrepo

import (
	"fmt"
	"slices"
	"strings"

	"outliner-cli/internal/model"
)

const maxDropsInMessage = 5

// DropMessage summarizes journaled drops as a one-line commit subject:
// "outliner: parent_drop ob-sphere -> ob-cube; uistack_drop mod-bevel -> mod-array".
func DropMessage(events []model.Event) string {
	var parts []string
	for _, ev := range events {
		if len(parts) == maxDropsInMessage {
			parts = append(parts, fmt.Sprintf("+%d more", len(events)-maxDropsInMessage))
			break
		}
		if p := describeDrop(ev); p != "" && !slices.Contains(parts, p) {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "outliner: " + strings.Join(parts, "; ")
}

type idRef interface{ IDRef() string }

func describeDrop(ev model.Event) string {
	kind := strings.TrimPrefix(strings.TrimSpace(ev.Kind), "outliner.")
	if kind == "" {
		return ""
	}
	ids := ev.EntityIDs
	target := ""
	if p, ok := ev.Payload.(map[string]any); ok {
		if t, ok := p["target"].(idRef); ok {
			target = t.IDRef()
		}
	}
	if target != "" && len(ids) > 0 && ids[len(ids)-1] == target {
		ids = ids[:len(ids)-1]
	}

	var b strings.Builder
	b.WriteString(kind)
	switch len(ids) {
	case 0:
	case 1, 2:
		b.WriteString(" " + strings.Join(ids, ", "))
	default:
		fmt.Fprintf(&b, " %s +%d", ids[0], len(ids)-1)
	}
	if target != "" {
		b.WriteString(" -> " + target)
	}
	return b.String()
}
