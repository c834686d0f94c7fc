package policy

import (
	"fmt"
	"strings"
)

const (
	currentUserExpr = "NULLIF(current_setting('app.current_user_id', true), '')::uuid"
	systemWriteExpr = "current_setting('app.system_write', true) = 'on'"
)

// PostgresStatements renders the configured rules as native row-level
// security policies. Every statement is idempotent.
func PostgresStatements() []string {
	var stmts []string
	for _, name := range TableNames() {
		t := Tables[name]
		stmts = append(stmts,
			fmt.Sprintf("ALTER TABLE %s ENABLE ROW LEVEL SECURITY;", t.Name),
			fmt.Sprintf("ALTER TABLE %s FORCE ROW LEVEL SECURITY;", t.Name),
		)
		for _, op := range []Operation{Select, Insert, Update, Delete} {
			rule, ok := t.Rules[op]
			if !ok || rule.Kind == Deny {
				// no permissive policy means the operation is refused
				continue
			}
			stmts = append(stmts,
				fmt.Sprintf("DROP POLICY IF EXISTS %q ON %s;", rule.Name, t.Name),
				createPolicy(t.Name, op, rule),
			)
		}
	}
	return stmts
}

func createPolicy(table string, op Operation, rule Rule) string {
	var predicate string
	switch rule.Kind {
	case Owner:
		predicate = fmt.Sprintf("%s = %s", rule.OwnerColumn, currentUserExpr)
	case System:
		predicate = systemWriteExpr
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE POLICY %q ON %s FOR %s", rule.Name, table, strings.ToUpper(string(op)))
	switch op {
	case Select, Delete:
		fmt.Fprintf(&b, " USING (%s)", predicate)
	case Insert:
		fmt.Fprintf(&b, " WITH CHECK (%s)", predicate)
	case Update:
		fmt.Fprintf(&b, " USING (%s) WITH CHECK (%s)", predicate, predicate)
	}
	b.WriteString(";")
	return b.String()
}
