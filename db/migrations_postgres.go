package db

var postgresMigrations = []Migration{
	{
		Version: 1,
		Name:    "create_llmstxt_documents_table",
		Up: `
			CREATE TABLE IF NOT EXISTS llmstxt_documents (
				id TEXT PRIMARY KEY,
				url TEXT NOT NULL,
				pipeline TEXT NOT NULL,
				title TEXT,
				slug TEXT,
				content TEXT NOT NULL,
				quality_score INTEGER NOT NULL DEFAULT 0,
				file_path TEXT,
				created_at TIMESTAMPTZ DEFAULT NOW(),
				UNIQUE (url, pipeline)
			);
			CREATE INDEX IF NOT EXISTS idx_llmstxt_documents_url ON llmstxt_documents(url);
			CREATE INDEX IF NOT EXISTS idx_llmstxt_documents_created_at ON llmstxt_documents(created_at);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_llmstxt_documents_created_at;
			DROP INDEX IF EXISTS idx_llmstxt_documents_url;
			DROP TABLE IF EXISTS llmstxt_documents;
		`,
	},
	{
		Version: 2,
		Name:    "add_documents_slug_index",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_llmstxt_documents_slug ON llmstxt_documents(slug);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_llmstxt_documents_slug;
		`,
	},
}
