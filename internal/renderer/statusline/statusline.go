// Package statusline formats the one-line engine summary shown below the
// document.
package statusline

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Separator joins status segments.
const Separator = " │ "

// Format builds the status text from a snapshot JSON document. A non-empty
// message is appended as the last segment.
func Format(doc, message string) string {
	root := gjson.Parse(doc)
	segs := []string{
		fmt.Sprintf("%d objects", root.Get("objects.#").Int()),
	}

	sel := root.Get("selection")
	if sel.Type == gjson.Null || !sel.Exists() {
		segs = append(segs, "no selection")
	} else {
		obj := root.Get(fmt.Sprintf(`objects.#(id==%q)`, sel.String()))
		segs = append(segs, fmt.Sprintf("%s %s %.0f%%",
			sel.String(),
			obj.Get("wrap").String(),
			obj.Get("opacityPercent").Float(),
		))
		if m := root.Get("mode").String(); m != "" && m != "none" {
			seg := "mode " + m
			if root.Get("session").Exists() {
				seg += " (dragging)"
			}
			segs = append(segs, seg)
		}
	}

	segs = append(segs, fmt.Sprintf("area %.0fx%.0f",
		root.Get("area.width").Float(), root.Get("area.height").Float()))

	if message != "" {
		segs = append(segs, message)
	}
	return strings.Join(segs, Separator)
}
