package models

import "time"

// ConnectionStatus is the lifecycle state of a stored connection.
type ConnectionStatus string

const (
	ConnectionActive   ConnectionStatus = "active"
	ConnectionInactive ConnectionStatus = "inactive"
)

// Connection is a stored source or target endpoint. The identifier a pipeline
// references may be the store's surrogate key (numeric) or the domain
// ConnectionID (string); existence checks handle both.
type Connection struct {
	ID           string           `json:"id"`
	ConnectionID string           `json:"connection_id" validate:"required"`
	Name         string           `json:"name"          validate:"required"`
	Platform     string           `json:"platform"      validate:"required"`
	Host         string           `json:"host,omitempty"`
	Port         int              `json:"port,omitempty"`
	Database     string           `json:"database,omitempty"`
	Username     string           `json:"username,omitempty"`
	Password     string           `json:"password,omitempty"` // Never embedded in generated documents
	Token        string           `json:"token,omitempty"`    // Never embedded in generated documents
	Extra        map[string]any   `json:"extra,omitempty"`
	Status       ConnectionStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ConnectionRef is the secret-stripped shape of a connection embedded in the
// canonical document. The document is written to a source-control-backed
// artifact, so password- and token-bearing fields must not appear here.
type ConnectionRef struct {
	ConnectionID string         `json:"connection_id" yaml:"connection_id"`
	Name         string         `json:"name"          yaml:"name"`
	Platform     string         `json:"platform"      yaml:"platform"`
	Host         string         `json:"host,omitempty"     yaml:"host,omitempty"`
	Port         int            `json:"port,omitempty"     yaml:"port,omitempty"`
	Database     string         `json:"database,omitempty" yaml:"database,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"    yaml:"extra,omitempty"`
}

// Ref returns the embeddable, secret-stripped view of the connection.
func (c *Connection) Ref() ConnectionRef {
	return ConnectionRef{
		ConnectionID: c.ConnectionID,
		Name:         c.Name,
		Platform:     c.Platform,
		Host:         c.Host,
		Port:         c.Port,
		Database:     c.Database,
		Extra:        c.Extra,
	}
}
