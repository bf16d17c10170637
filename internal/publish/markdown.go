// Package publish writes a readable report of a scene: the outliner as a nested list,
// per-object details and the recent drops.
package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"outliner-cli/internal/model"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
)

type RenderOptions struct {
	// Events are the recent drops to list, oldest first.
	Events []model.Event
	// Now stamps the report; zero leaves the stamp out.
	Now time.Time
}

func RenderSceneMarkdown(db *store.DB, tr *outline.Tree, opt RenderOptions) (string, error) {
	if db == nil || tr == nil {
		return "", fmt.Errorf("missing scene")
	}
	sc, ok := db.ActiveScene()
	if !ok {
		return "", fmt.Errorf("active scene not found: %q", db.ActiveSceneID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + mdText(sc.Name))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + sc.ID)
	writeLn(fmt.Sprintf("- Objects: %d", len(db.Objects)))
	writeLn(fmt.Sprintf("- Collections: %d", len(db.Collections)))
	writeLn(fmt.Sprintf("- Display: %s, %s", tr.View().Mode, tr.View().Sort))
	if !opt.Now.IsZero() {
		writeLn("- Published: " + opt.Now.UTC().Format(time.RFC3339))
	}
	writeLn("")

	writeLn("## Outliner")
	writeLn("")
	for _, id := range tr.Visible() {
		n := tr.Node(id)
		line := strings.Repeat("  ", n.Depth) + "- " + mdText(n.Label) + " `" + n.Elem.Kind.String() + "`"
		if n.Elem.Kind == outline.ElemObject || n.Elem.Kind == outline.ElemCollection {
			if linked(db, n.Elem) {
				line += " (linked)"
			}
		}
		if len(n.Children) > 0 && !n.Open {
			line += fmt.Sprintf(" (+%d collapsed)", len(n.Children))
		}
		writeLn(line)
	}
	writeLn("")

	if len(db.Objects) > 0 {
		writeLn("## Objects")
		writeLn("")
		writeLn("| Object | Type | Parent | Collections | Modifiers | Constraints | Materials |")
		writeLn("| --- | --- | --- | --- | --- | --- | --- |")
		for i := range db.Objects {
			ob := &db.Objects[i]
			parent := ""
			if ob.ParentID != nil {
				parent = objectName(db, *ob.ParentID)
			}
			var colls []string
			for _, c := range db.ObjectCollections(ob.ID) {
				colls = append(colls, c.Name)
			}
			writeLn("| " + strings.Join([]string{
				cell(ob.Name) + " (`" + ob.ID + "`)",
				string(ob.Type),
				cell(parent),
				cell(strings.Join(colls, ", ")),
				cell(stackNames(db, ob.Modifiers)),
				cell(stackNames(db, ob.Constraints)),
				cell(materialNames(db, ob.Materials)),
			}, " | ") + " |")
		}
		writeLn("")
	}

	if len(opt.Events) > 0 {
		writeLn("## Recent drops")
		writeLn("")
		for _, ev := range opt.Events {
			line := "- " + ev.TS.UTC().Format(time.RFC3339) + " " + strings.TrimPrefix(ev.Kind, "outliner.")
			if len(ev.EntityIDs) > 0 {
				line += ": " + strings.Join(ev.EntityIDs, ", ")
			}
			writeLn(line)
		}
		writeLn("")
	}

	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}

func linked(db *store.DB, e outline.Elem) bool {
	switch e.Kind {
	case outline.ElemObject:
		ob, ok := db.FindObject(e.ID)
		return ok && ob.Linked
	case outline.ElemCollection:
		c, ok := db.FindCollection(e.ID)
		return ok && c.Linked
	}
	return false
}

func objectName(db *store.DB, id string) string {
	if ob, ok := db.FindObject(id); ok {
		return ob.Name
	}
	return id
}

func stackNames(db *store.DB, ids []string) string {
	var out []string
	for _, id := range ids {
		if it, ok := db.FindStackItem(id); ok {
			out = append(out, it.Name)
		} else {
			out = append(out, id)
		}
	}
	return strings.Join(out, ", ")
}

func materialNames(db *store.DB, ids []string) string {
	var out []string
	for _, id := range ids {
		if ma, ok := db.FindMaterial(id); ok {
			out = append(out, ma.Name)
		} else {
			out = append(out, id)
		}
	}
	return strings.Join(out, ", ")
}

// mdText escapes characters that would start markdown syntax inside names.
func mdText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)
	return r.Replace(strings.TrimSpace(s))
}

func cell(s string) string {
	s = strings.ReplaceAll(mdText(s), "|", `\|`)
	if s == "" {
		return "-"
	}
	return s
}
