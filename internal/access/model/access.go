package model

// Operation is the access tier a field check runs under.
type Operation int

const (
	// OperationRead covers an account reading its own profile.
	OperationRead Operation = iota
	// OperationReadOthers covers an account reading another account's profile.
	OperationReadOthers
	// OperationWrite covers an account writing its own profile.
	OperationWrite
)

func (op Operation) String() string {
	switch op {
	case OperationRead:
		return "read"
	case OperationReadOthers:
		return "read_others"
	case OperationWrite:
		return "write"
	}
	return "unknown"
}

// AccessRuleSet holds the three field-name sets of a gamespace. The sets are
// caller-defined and may overlap; a zero value rule set means nothing is
// private or protected and nothing is public.
type AccessRuleSet struct {
	Private   []string `json:"private"`
	Protected []string `json:"protected"`
	Public    []string `json:"public"`
}

// FilterRead returns the given field names minus the private ones. Private
// fields are dropped silently, never reported.
func (rules AccessRuleSet) FilterRead(fields []string) []string {
	private := toSet(rules.Private)

	result := make([]string, 0, len(fields))
	for _, field := range fields {
		if !private[field] {
			result = append(result, field)
		}
	}
	return result
}

// FilterReadOthers returns only the given field names that are explicitly
// public.
func (rules AccessRuleSet) FilterReadOthers(fields []string) []string {
	public := toSet(rules.Public)

	result := make([]string, 0, len(fields))
	for _, field := range fields {
		if public[field] {
			result = append(result, field)
		}
	}
	return result
}

// DeniesWrite reports whether any of the given field names is blocked for
// ordinary writers. Both private and protected fields block writes; there is
// no precedence between the two sets.
func (rules AccessRuleSet) DeniesWrite(fields []string) bool {
	private := toSet(rules.Private)
	protected := toSet(rules.Protected)

	for _, field := range fields {
		if private[field] || protected[field] {
			return true
		}
	}
	return false
}

func toSet(fields []string) map[string]bool {
	set := make(map[string]bool, len(fields))
	for _, field := range fields {
		set[field] = true
	}
	return set
}
