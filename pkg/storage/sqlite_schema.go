package storage

// schemaVersion is bumped whenever the rules schema changes shape.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS rules (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    rule_text TEXT NOT NULL,
    ast_json TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rules_name ON rules(name);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

const (
	insertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`
	selectSchemaVersion = `SELECT MAX(version) FROM schema_version`

	insertRule = `
		INSERT INTO rules (name, rule_text, ast_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`

	ruleColumns = `id, name, rule_text, ast_json, created_at, updated_at`

	selectRuleByID   = `SELECT ` + ruleColumns + ` FROM rules WHERE id = ?`
	selectRuleByName = `SELECT ` + ruleColumns + ` FROM rules WHERE name = ? ORDER BY id LIMIT 1`
	selectAllRules   = `SELECT ` + ruleColumns + ` FROM rules ORDER BY id`
	updateRule       = `UPDATE rules SET rule_text = ?, ast_json = ?, updated_at = ? WHERE id = ?`
	deleteRule       = `DELETE FROM rules WHERE id = ?`
	countRules       = `SELECT COUNT(*) FROM rules`
)
