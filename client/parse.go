package client

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"fsc/entity"
)

// XML to entity tree conversion. The document structure is the same one the
// renderer produces: an <entity> element per record with one child element
// per field, nested elements for sub-entities and sibling elements of the
// same name (or a repeatable="true" marker) for repeated fields.

// ParseEntity converts the XML text of a single record into an entity.
func ParseEntity(text string) (*entity.Entity, error) {
	root, err := readRoot(text)
	if err != nil {
		return nil, err
	}
	if root.Tag != "entity" {
		return nil, fmt.Errorf("unexpected root element %q, want \"entity\"", root.Tag)
	}
	return parseEntity(root), nil
}

// ParseFeed converts the XML text of an <entities> document into a feed,
// preserving entry order.
func ParseFeed(text string) (entity.Feed, error) {
	root, err := readRoot(text)
	if err != nil {
		return nil, err
	}
	if root.Tag != "entities" {
		return nil, fmt.Errorf("unexpected root element %q, want \"entities\"", root.Tag)
	}
	return parseFeed(root)
}

// Parse accepts either document form. Exactly one of the results is
// non-nil on success.
func Parse(text string) (entity.Feed, *entity.Entity, error) {
	root, err := readRoot(text)
	if err != nil {
		return nil, nil, err
	}
	switch root.Tag {
	case "entity":
		return nil, parseEntity(root), nil
	case "entities":
		feed, err := parseFeed(root)
		return feed, nil, err
	default:
		return nil, nil, fmt.Errorf("unexpected root element %q, want \"entity\" or \"entities\"", root.Tag)
	}
}

func readRoot(text string) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if err := doc.ReadFromString(text); err != nil {
		return nil, fmt.Errorf("unable to read entity XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("entity XML has no root element")
	}
	return root, nil
}

func parseFeed(root *etree.Element) (entity.Feed, error) {
	var feed entity.Feed
	for _, child := range root.ChildElements() {
		if child.Tag != "entity" {
			return nil, fmt.Errorf("unexpected element %q in entities, want \"entity\"", child.Tag)
		}
		feed = append(feed, parseEntity(child))
	}
	return feed, nil
}

func parseEntity(el *etree.Element) *entity.Entity {
	e := entity.New()
	for _, child := range el.ChildElements() {
		v := parseValue(child)
		if prev, ok := e.Get(child.Tag); ok {
			// sibling of the same name extends the repeated group
			if group, ok := prev.(entity.Repeated); ok {
				e.Set(child.Tag, append(group, v))
			} else {
				e.Set(child.Tag, entity.Repeated{prev, v})
			}
			continue
		}
		if child.SelectAttrValue("repeatable", "") == "true" {
			e.Set(child.Tag, entity.Repeated{v})
			continue
		}
		e.Set(child.Tag, v)
	}
	return e
}

func parseValue(el *etree.Element) entity.Value {
	if len(el.ChildElements()) > 0 {
		return parseEntity(el)
	}
	// element content is whitespace-formatted by the renderer, entity text
	// itself never carries leading or trailing markup whitespace
	return entity.Scalar(strings.TrimSpace(el.Text()))
}
