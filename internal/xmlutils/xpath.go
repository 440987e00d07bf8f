// Package xmlutils provides the XPath helpers used to read XML bank statements.
package xmlutils

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/xmlpath.v2"
)

// Parse reads an XML document and returns its root node
func Parse(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// ExtractFromXML extracts the values of every node matching xpath below root
func ExtractFromXML(root *xmlpath.Node, xpath string) ([]string, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath: %w", err)
	}

	var values []string
	iter := path.Iter(root)
	for iter.Next() {
		values = append(values, CleanText(iter.Node().String()))
	}
	return values, nil
}

// Nodes returns the nodes matching path below root
func Nodes(root *xmlpath.Node, path *xmlpath.Path) []*xmlpath.Node {
	var nodes []*xmlpath.Node
	iter := path.Iter(root)
	for iter.Next() {
		nodes = append(nodes, iter.Node())
	}
	return nodes
}

// First returns the cleaned text of the first node matching path, or ""
func First(node *xmlpath.Node, path *xmlpath.Path) string {
	value, ok := path.String(node)
	if !ok {
		return ""
	}
	return CleanText(value)
}

// All returns the cleaned, non-empty texts of every node matching path
func All(node *xmlpath.Node, path *xmlpath.Path) []string {
	var values []string
	iter := path.Iter(node)
	for iter.Next() {
		if v := CleanText(iter.Node().String()); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// Exists reports whether path matches anything below node
func Exists(node *xmlpath.Node, path *xmlpath.Path) bool {
	return path.Exists(node)
}

// CleanText collapses runs of whitespace, including newlines and tabs, into
// single spaces and trims the result
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
