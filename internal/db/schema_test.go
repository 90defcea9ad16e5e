package db

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableDefinition(t *testing.T, table string) string {
	t.Helper()
	re := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS public\.` + table + `\s*\((.*?)\n\);`)
	m := re.FindStringSubmatch(Schema)
	require.Len(t, m, 2, "table %s not found", table)
	return m[1]
}

func TestSchema_DailySamplesUniquePerAthlete(t *testing.T) {
	for _, table := range []string{"composition_corporelle", "sleep_logs"} {
		t.Run(table, func(t *testing.T) {
			def := tableDefinition(t, table)
			assert.Regexp(t, `\bdate\s+DATE NOT NULL`, def)
			assert.Contains(t, def, "UNIQUE (user_id, date)")
			assert.Regexp(t, `CREATE UNIQUE INDEX IF NOT EXISTS \w+ ON public\.`+table+` \(user_id, date\);`, Schema)
		})
	}
}

func TestSchema_Idempotent(t *testing.T) {
	creates := regexp.MustCompile(`CREATE (UNIQUE )?(TABLE|INDEX) `).FindAllString(Schema, -1)
	guarded := regexp.MustCompile(`CREATE (UNIQUE )?(TABLE|INDEX) IF NOT EXISTS `).FindAllString(Schema, -1)
	require.NotEmpty(t, creates)
	assert.Len(t, guarded, len(creates))
}
