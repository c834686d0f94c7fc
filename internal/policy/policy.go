// Package policy declares the row-level security rules of every owned table
// and turns them into gorm scopes and postgres policies.
package policy

import (
	"fmt"
	"sort"

	apperrors "kudi/internal/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Operation is the statement kind a rule applies to.
type Operation string

const (
	Select Operation = "select"
	Insert Operation = "insert"
	Update Operation = "update"
	Delete Operation = "delete"
)

// RuleKind is how a rule decides.
type RuleKind int

const (
	// Owner allows the row only when its owner column equals the caller.
	Owner RuleKind = iota
	// System allows only server-side writes (triggers), never client calls.
	System
	// Deny never allows the operation.
	Deny
)

// Rule is a single per-table, per-operation predicate.
type Rule struct {
	Name        string
	Kind        RuleKind
	OwnerColumn string
}

// Table groups the rules of one table.
type Table struct {
	Name  string
	Rules map[Operation]Rule
}

// Ownable is implemented by every row that belongs to an identity.
type Ownable interface {
	GetUserID() uuid.UUID
}

func owner(name, column string) Rule { return Rule{Name: name, Kind: Owner, OwnerColumn: column} }

// Tables is the full row-level security configuration.
var Tables = map[string]Table{
	"profiles": {
		Name: "profiles",
		Rules: map[Operation]Rule{
			Select: owner("Users can view own profile", "id"),
			Insert: owner("Users can insert own profile", "id"),
			Update: owner("Users can update own profile", "id"),
			Delete: owner("Users can delete own profile", "id"),
		},
	},
	"transactions": {
		Name: "transactions",
		Rules: map[Operation]Rule{
			Select: owner("Users can view own transactions", "user_id"),
			Insert: owner("Users can insert own transactions", "user_id"),
			Update: owner("Users can update own transactions", "user_id"),
			Delete: owner("Users can delete own transactions", "user_id"),
		},
	},
	"bank_accounts": {
		Name: "bank_accounts",
		Rules: map[Operation]Rule{
			Select: owner("Users can view own bank accounts", "user_id"),
			Insert: owner("Users can insert own bank accounts", "user_id"),
			Update: owner("Users can update own bank accounts", "user_id"),
			Delete: owner("Users can delete own bank accounts", "user_id"),
		},
	},
	"audit_logs": {
		Name: "audit_logs",
		Rules: map[Operation]Rule{
			Select: owner("Users can view own audit logs", "user_id"),
			Insert: {Name: "System can insert audit logs", Kind: System},
			Update: {Name: "Audit logs are immutable", Kind: Deny},
			Delete: {Name: "Audit logs cannot be deleted", Kind: Deny},
		},
	},
}

// Lookup returns the rule for table and op.
func Lookup(table string, op Operation) (Rule, error) {
	t, ok := Tables[table]
	if !ok {
		return Rule{}, fmt.Errorf("no row-level security rules for table %q", table)
	}
	r, ok := t.Rules[op]
	if !ok {
		return Rule{Kind: Deny}, nil
	}
	return r, nil
}

// Scope restricts a query to the rows the caller may touch with op. Rows of
// other identities simply do not match, so reads return zero rows.
func Scope(table string, op Operation, caller uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if caller == uuid.Nil {
			_ = db.AddError(apperrors.ErrUnauthenticated)
			return db
		}
		rule, err := Lookup(table, op)
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		switch rule.Kind {
		case Owner:
			return db.Where(fmt.Sprintf("%s.%s = ?", table, rule.OwnerColumn), caller)
		default:
			return db.Where("1 = 0")
		}
	}
}

// CheckWrite verifies that a client write of row by caller satisfies the
// table's rule for op.
func CheckWrite(table string, op Operation, caller uuid.UUID, row Ownable) error {
	if caller == uuid.Nil {
		return apperrors.ErrUnauthenticated
	}
	rule, err := Lookup(table, op)
	if err != nil {
		return err
	}
	switch rule.Kind {
	case Owner:
		if row.GetUserID() != caller {
			return apperrors.ErrRowLevelSecurity
		}
		return nil
	default:
		return apperrors.ErrRowLevelSecurity.WithMessage(fmt.Sprintf("%s on %s is not permitted for clients", op, table))
	}
}

// CanAccess reports whether caller may apply op to an already loaded row.
func CanAccess(table string, op Operation, caller uuid.UUID, row Ownable) bool {
	return CheckWrite(table, op, caller, row) == nil
}

// TableNames returns the configured tables in a stable order.
func TableNames() []string {
	names := make([]string, 0, len(Tables))
	for name := range Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
