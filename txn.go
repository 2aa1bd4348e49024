package arbalest

import "strconv"

// TxState is the lifecycle state of a Transaction.
type TxState int

const (
	// TxIdle means Begin has not been called.
	TxIdle TxState = iota
	// TxActive means the transaction is open and accepts work.
	TxActive
	// TxCommitted is terminal: the transaction committed.
	TxCommitted
	// TxRolledBack is terminal: the transaction rolled back.
	TxRolledBack
)

func (s TxState) String() string {
	switch s {
	case TxIdle:
		return "idle"
	case TxActive:
		return "active"
	case TxCommitted:
		return "committed"
	default:
		return "rolled back"
	}
}

// IsolationLevel is emitted verbatim in the BEGIN text.
type IsolationLevel string

const (
	LevelDefault    IsolationLevel = ""
	ReadUncommitted IsolationLevel = "READ UNCOMMITTED"
	ReadCommitted   IsolationLevel = "READ COMMITTED"
	RepeatableRead  IsolationLevel = "REPEATABLE READ"
	Serializable    IsolationLevel = "SERIALIZABLE"
)

// Transaction sequences transaction control statements. It never talks
// to a database: each operation checks the state machine, advances it,
// and returns the literal SQL text for the executor to send verbatim.
//
// The lifecycle is Idle, then Active after Begin, then exactly one of
// Committed or RolledBack. Savepoints form a stack while Active; the
// same name may appear more than once, and rollback or release resolves
// to the most recent occurrence.
type Transaction struct {
	state      TxState
	isolation  IsolationLevel
	savepoints []string
}

// NewTransaction creates an idle transaction. The isolation level is
// fixed at construction; LevelDefault omits the clause from BEGIN.
//
// The BEGIN ISOLATION LEVEL form is PostgreSQL syntax. MySQL and SQLite
// reject it, so callers on those dialects should pass LevelDefault and
// set the isolation level through the driver instead.
func NewTransaction(level IsolationLevel) *Transaction {
	return &Transaction{isolation: level}
}

// State returns the current lifecycle state.
func (t *Transaction) State() TxState { return t.state }

// Savepoints returns the names on the savepoint stack, outermost first.
func (t *Transaction) Savepoints() []string {
	out := make([]string, len(t.savepoints))
	copy(out, t.savepoints)
	return out
}

// Begin opens the transaction and returns its BEGIN text.
func (t *Transaction) Begin() (string, error) {
	if t.state != TxIdle {
		return "", &TransactionStateError{Op: "BEGIN", State: t.state}
	}
	t.state = TxActive
	if t.isolation != LevelDefault {
		return "BEGIN ISOLATION LEVEL " + string(t.isolation), nil
	}
	return "BEGIN", nil
}

// Commit closes the transaction successfully. Terminal: no operation is
// accepted afterwards.
func (t *Transaction) Commit() (string, error) {
	if t.state != TxActive {
		return "", &TransactionStateError{Op: "COMMIT", State: t.state}
	}
	t.state = TxCommitted
	t.savepoints = nil
	return "COMMIT", nil
}

// Rollback abandons the transaction. Terminal.
func (t *Transaction) Rollback() (string, error) {
	if t.state != TxActive {
		return "", &TransactionStateError{Op: "ROLLBACK", State: t.state}
	}
	t.state = TxRolledBack
	t.savepoints = nil
	return "ROLLBACK", nil
}

// Savepoint pushes a named savepoint. Names must be bare identifiers
// since they are spliced into the SQL text; duplicates are allowed and
// shadow earlier occurrences.
func (t *Transaction) Savepoint(name string) (string, error) {
	if t.state != TxActive {
		return "", &TransactionStateError{Op: "SAVEPOINT", State: t.state}
	}
	if !isBareIdent(name) {
		return "", &TransactionStateError{Op: "SAVEPOINT", State: t.state, Reason: "invalid savepoint name " + strconv.Quote(name)}
	}
	t.savepoints = append(t.savepoints, name)
	return "SAVEPOINT " + name, nil
}

// RollbackTo rewinds to the most recent occurrence of the named
// savepoint. The savepoint itself survives, so work can resume from it
// and roll back to it again; everything nested above it is discarded.
func (t *Transaction) RollbackTo(name string) (string, error) {
	if t.state != TxActive {
		return "", &TransactionStateError{Op: "ROLLBACK TO SAVEPOINT", State: t.state}
	}
	idx := t.lastIndex(name)
	if idx < 0 {
		return "", &TransactionStateError{Op: "ROLLBACK TO SAVEPOINT", State: t.state, Savepoint: name}
	}
	t.savepoints = t.savepoints[:idx+1]
	return "ROLLBACK TO SAVEPOINT " + name, nil
}

// Release removes the most recent occurrence of the named savepoint and
// everything nested above it, keeping the work done since.
func (t *Transaction) Release(name string) (string, error) {
	if t.state != TxActive {
		return "", &TransactionStateError{Op: "RELEASE SAVEPOINT", State: t.state}
	}
	idx := t.lastIndex(name)
	if idx < 0 {
		return "", &TransactionStateError{Op: "RELEASE SAVEPOINT", State: t.state, Savepoint: name}
	}
	t.savepoints = t.savepoints[:idx]
	return "RELEASE SAVEPOINT " + name, nil
}

func (t *Transaction) lastIndex(name string) int {
	for i := len(t.savepoints) - 1; i >= 0; i-- {
		if t.savepoints[i] == name {
			return i
		}
	}
	return -1
}
