package nl2sql

import (
	"fmt"
	"strings"
)

// Statements other than plain SELECTs are rejected outright.
var bannedKeywords = []string{"DROP", "DELETE", "INSERT", "UPDATE", "ALTER", "CREATE", "TRUNCATE"}

// CleanSQL strips markdown code fences and a trailing semicolon from a
// model response.
func CleanSQL(sql string) string {
	sql = strings.ReplaceAll(sql, "```sql", "")
	sql = strings.ReplaceAll(sql, "```", "")
	sql = strings.TrimSpace(sql)
	sql = strings.TrimSuffix(sql, ";")
	return strings.TrimSpace(sql)
}

// ValidateQuery enforces the read-only contract: the statement must
// start with SELECT and must not contain any mutating keyword.
func ValidateQuery(sql string) error {
	upper := strings.ToUpper(strings.TrimSpace(sql))
	if upper == "" {
		return fmt.Errorf("empty query")
	}
	if !strings.HasPrefix(upper, "SELECT") {
		return fmt.Errorf("only SELECT queries are allowed")
	}
	for _, kw := range bannedKeywords {
		if containsKeyword(upper, kw) {
			return fmt.Errorf("query contains forbidden keyword %s", kw)
		}
	}
	return nil
}

// containsKeyword matches kw as a whole word so column names like
// created_at do not trip the CREATE check.
func containsKeyword(upper, kw string) bool {
	idx := 0
	for {
		i := strings.Index(upper[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		beforeOK := start == 0 || !isWordByte(upper[start-1])
		afterOK := end == len(upper) || !isWordByte(upper[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
