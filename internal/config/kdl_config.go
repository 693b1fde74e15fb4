package config

import (
	"fmt"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/standardbeagle/todoview/internal/debug"
)

// parseKDL reads a .todoview.kdl document:
//
//	categories "TODO" "FIXME" "NOTE"
//	roots "." "../shared"
//	respect_gitignore true
//	exclude {
//	    folders ".git" "node_modules"
//	    binary "*.png"
//	    files "*.min.js"
//	}
//	query {
//	    empty_query "*:*:*"
//	    empty_assignee_matches_unassigned true
//	}
//	output {
//	    format "text"
//	    truncate_messages true
//	    relative_paths true
//	}
func parseKDL(content string) (*fileConfig, error) {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	fc := &fileConfig{}
	for _, n := range doc.Nodes {
		switch name := nodeName(n); name {
		case "categories":
			fc.Categories = collectStringArgs(n)
		case "roots":
			fc.Roots = collectStringArgs(n)
		case "respect_gitignore":
			assignBool(n, func(v bool) { fc.RespectGitignore = &v })
		case "exclude":
			for _, cn := range n.Children { // exclude { folders ".git"; files "*.o" }
				switch nodeName(cn) {
				case "folders", "folder_exclude_patterns":
					fc.Exclude.Folders = collectStringArgs(cn)
				case "binary", "binary_file_patterns":
					fc.Exclude.Binary = collectStringArgs(cn)
				case "files", "file_exclude_patterns":
					fc.Exclude.Files = collectStringArgs(cn)
				default:
					debug.LogConfig("ignoring unknown exclude node '%s'\n", nodeName(cn))
				}
			}
		case "query":
			for _, cn := range n.Children {
				assignSimpleString(cn, "empty_query", func(v string) { fc.Query.EmptyQuery = &v })
				if nodeName(cn) == "empty_assignee_matches_unassigned" {
					assignBool(cn, func(v bool) { fc.Query.EmptyAssigneeMatchesUnassigned = &v })
				}
			}
		case "output":
			for _, cn := range n.Children {
				assignSimpleString(cn, "format", func(v string) { fc.Output.Format = &v })
				switch nodeName(cn) {
				case "truncate_messages":
					assignBool(cn, func(v bool) { fc.Output.TruncateMessages = &v })
				case "relative_paths":
					assignBool(cn, func(v bool) { fc.Output.RelativePaths = &v })
				}
			}
		default:
			debug.LogConfig("ignoring unknown KDL node '%s'\n", name)
		}
	}

	return fc, nil
}

// Helper functions over the kdl-go document model
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}
func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}
func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	// Inline format: categories "TODO" "FIXME"
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// Block format: categories { TODO; FIXME } where each child's name is the value
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}
func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
func assignBool(n *document.Node, set func(bool)) {
	if b, ok := firstBoolArg(n); ok {
		set(b)
		return
	}
	debug.LogConfig("expected boolean for '%s' in KDL config\n", nodeName(n))
}
