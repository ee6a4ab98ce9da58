package postgresql

// TableName maps a domain entity to its physical table.
func TableName(entity string) string {
	switch entity {
	case "Connection":
		return "connections"
	case "Pipeline":
		return "pipelines"
	case "Template":
		return "templates"
	default:
		return entity
	}
}

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Pipelines and templates carry their own string identifiers; the
			-- row body is the JSON document the API exchanges.
			CREATE TABLE pipelines (
				id TEXT PRIMARY KEY,
				data JSONB NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_pipelines_name ON pipelines((data->>'name'));

			-- Connections get a numeric surrogate key; pipelines may reference
			-- either the surrogate id or the domain connection_id.
			CREATE TABLE connections (
				id BIGSERIAL PRIMARY KEY,
				data JSONB NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE UNIQUE INDEX idx_connections_connection_id ON connections((data->>'connection_id'));
			CREATE INDEX idx_connections_status ON connections((data->>'status'));

			CREATE TABLE templates (
				id TEXT PRIMARY KEY,
				data JSONB NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
		`,
	}
}
