// Package hklib implements the hkbase entity model: typed graph objects and
// the codec between them and the JSON maps exchanged on the wire.
package hklib

import (
	"errors"
	"fmt"
)

// EntityType tags the concrete kind of a graph entity.
type EntityType string

const (
	TypeNode      EntityType = "node"
	TypeContext   EntityType = "context"
	TypeReference EntityType = "ref"
	TypeLink      EntityType = "link"
	TypeConnector EntityType = "connector"
	TypeTrail     EntityType = "trail"
)

var (
	ErrMissingType = errors.New("entity has no type field")
	ErrUnknownType = errors.New("unknown entity type")
)

// Entity is a graph object that can be converted back to its wire form.
type Entity interface {
	EntityID() string
	EntityType() EntityType
	ToMap() map[string]any
}

// Node is a plain graph node.
type Node struct {
	ID             string
	Parent         string
	Properties     map[string]any
	MetaProperties map[string]any
	Interfaces     map[string]any
}

// EntityID implements Entity.
func (n *Node) EntityID() string { return n.ID }

// EntityType implements Entity.
func (n *Node) EntityType() EntityType { return TypeNode }

// ToMap implements Entity.
func (n *Node) ToMap() map[string]any {
	return nodeMap(TypeNode, n)
}

// Context is a node that scopes other entities.
type Context struct {
	Node
}

// EntityType implements Entity.
func (c *Context) EntityType() EntityType { return TypeContext }

// ToMap implements Entity.
func (c *Context) ToMap() map[string]any {
	return nodeMap(TypeContext, &c.Node)
}

// Reference is a node standing in for another entity within a context.
type Reference struct {
	Node
	Ref string
}

// EntityType implements Entity.
func (r *Reference) EntityType() EntityType { return TypeReference }

// ToMap implements Entity.
func (r *Reference) ToMap() map[string]any {
	m := nodeMap(TypeReference, &r.Node)
	if r.Ref != "" {
		m["ref"] = r.Ref
	}

	return m
}

// Trail is a node recording an ordered sequence of steps.
type Trail struct {
	Node
	Steps []any
}

// EntityType implements Entity.
func (t *Trail) EntityType() EntityType { return TypeTrail }

// ToMap implements Entity.
func (t *Trail) ToMap() map[string]any {
	m := nodeMap(TypeTrail, &t.Node)
	if len(t.Steps) > 0 {
		m["steps"] = t.Steps
	}

	return m
}

// Link connects entities through the roles of a connector. Binds maps each
// role name to the bound entity ids.
type Link struct {
	ID             string
	Parent         string
	Connector      string
	Binds          map[string]any
	Properties     map[string]any
	MetaProperties map[string]any
}

// EntityID implements Entity.
func (l *Link) EntityID() string { return l.ID }

// EntityType implements Entity.
func (l *Link) EntityType() EntityType { return TypeLink }

// ToMap implements Entity.
func (l *Link) ToMap() map[string]any {
	m := map[string]any{
		"type": string(TypeLink),
		"id":   l.ID,
	}
	if l.Parent != "" {
		m["parent"] = l.Parent
	}

	if l.Connector != "" {
		m["connector"] = l.Connector
	}

	if len(l.Binds) > 0 {
		m["binds"] = l.Binds
	}

	putProperties(m, l.Properties, l.MetaProperties)

	return m
}

// Connector declares a relation class and the roles links of that class bind.
type Connector struct {
	ID             string
	ClassName      string
	Roles          map[string]string
	Properties     map[string]any
	MetaProperties map[string]any
}

// EntityID implements Entity.
func (c *Connector) EntityID() string { return c.ID }

// EntityType implements Entity.
func (c *Connector) EntityType() EntityType { return TypeConnector }

// ToMap implements Entity.
func (c *Connector) ToMap() map[string]any {
	m := map[string]any{
		"type": string(TypeConnector),
		"id":   c.ID,
	}
	if c.ClassName != "" {
		m["className"] = c.ClassName
	}

	if len(c.Roles) > 0 {
		roles := make(map[string]any, len(c.Roles))
		for role, roleType := range c.Roles {
			roles[role] = roleType
		}

		m["roles"] = roles
	}

	putProperties(m, c.Properties, c.MetaProperties)

	return m
}

// Decode converts a wire-form JSON map into a typed entity, dispatching on
// its type tag.
func Decode(data map[string]any) (Entity, error) {
	rawType, ok := data["type"].(string)
	if !ok || rawType == "" {
		return nil, ErrMissingType
	}

	switch EntityType(rawType) {
	case TypeNode:
		return decodeNode(data), nil
	case TypeContext:
		return &Context{Node: *decodeNode(data)}, nil
	case TypeReference:
		return &Reference{Node: *decodeNode(data), Ref: stringField(data, "ref")}, nil
	case TypeTrail:
		trail := &Trail{Node: *decodeNode(data)}
		if steps, ok := data["steps"].([]any); ok {
			trail.Steps = steps
		}

		return trail, nil
	case TypeLink:
		return &Link{
			ID:             stringField(data, "id"),
			Parent:         stringField(data, "parent"),
			Connector:      stringField(data, "connector"),
			Binds:          mapField(data, "binds"),
			Properties:     mapField(data, "properties"),
			MetaProperties: mapField(data, "metaProperties"),
		}, nil
	case TypeConnector:
		connector := &Connector{
			ID:             stringField(data, "id"),
			ClassName:      stringField(data, "className"),
			Properties:     mapField(data, "properties"),
			MetaProperties: mapField(data, "metaProperties"),
		}
		if roles := mapField(data, "roles"); roles != nil {
			connector.Roles = make(map[string]string, len(roles))

			for role, roleType := range roles {
				if s, ok := roleType.(string); ok {
					connector.Roles[role] = s
				}
			}
		}

		return connector, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, rawType)
	}
}

// DecodeAll converts a slice of wire-form maps.
func DecodeAll(data []map[string]any) ([]Entity, error) {
	entities := make([]Entity, 0, len(data))

	for _, m := range data {
		entity, err := Decode(m)
		if err != nil {
			return nil, err
		}

		entities = append(entities, entity)
	}

	return entities, nil
}

func decodeNode(data map[string]any) *Node {
	return &Node{
		ID:             stringField(data, "id"),
		Parent:         stringField(data, "parent"),
		Properties:     mapField(data, "properties"),
		MetaProperties: mapField(data, "metaProperties"),
		Interfaces:     mapField(data, "interfaces"),
	}
}

func nodeMap(entityType EntityType, n *Node) map[string]any {
	m := map[string]any{
		"type": string(entityType),
		"id":   n.ID,
	}
	if n.Parent != "" {
		m["parent"] = n.Parent
	}

	if len(n.Interfaces) > 0 {
		m["interfaces"] = n.Interfaces
	}

	putProperties(m, n.Properties, n.MetaProperties)

	return m
}

func putProperties(m map[string]any, properties, metaProperties map[string]any) {
	if len(properties) > 0 {
		m["properties"] = properties
	}

	if len(metaProperties) > 0 {
		m["metaProperties"] = metaProperties
	}
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)

	return s
}

func mapField(data map[string]any, key string) map[string]any {
	m, _ := data[key].(map[string]any)

	return m
}
