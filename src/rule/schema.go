package rule

// DescriptorKind tags the supported option-schema shapes.
type DescriptorKind int

const (
	// DescEnum is an ordered set of literal values.
	DescEnum DescriptorKind = iota
	// DescBoolean expands to the enum {true, false}.
	DescBoolean
	// DescObject is a flat object whose properties are each enum or boolean.
	DescObject
	// DescNotSupported marks a schema form the expander does not handle
	// (disjunctive one-of shapes and anything unrecognized). It
	// contributes no candidates and is never an error; callers can
	// inspect Reason to surface it.
	DescNotSupported
)

func (k DescriptorKind) String() string {
	switch k {
	case DescEnum:
		return "enum"
	case DescBoolean:
		return "boolean"
	case DescObject:
		return "object"
	case DescNotSupported:
		return "not-supported"
	default:
		return "descriptor(?)"
	}
}

// Property is one named sub-option of an object descriptor, already
// lowered to its value set (booleans become {true, false}).
type Property struct {
	Name   string
	Values []any
}

// Descriptor is one option axis of a rule's schema. The fields used
// depend on Kind: Values for DescEnum, Properties for DescObject,
// Reason for DescNotSupported.
type Descriptor struct {
	Kind       DescriptorKind
	Values     []any
	Properties []Property
	Reason     string
}

// Schema is the ordered list of option axes declared by a rule.
type Schema []Descriptor

// NotSupported returns the reasons of every unexpanded axis.
func (s Schema) NotSupported() []string {
	var reasons []string
	for _, d := range s {
		if d.Kind == DescNotSupported {
			reasons = append(reasons, d.Reason)
		}
	}
	return reasons
}
