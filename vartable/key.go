package vartable

import "github.com/arnewolf/ravel/id"

// Role tags the purpose of a variable slot. The enumeration is fixed: the
// compiler never invents new roles at runtime.
type Role uint8

const (
	RoleRate Role = iota
	RoleActivation
	RoleDerivative
	RoleBias
	RoleState
	RoleOldState
	RoleWeight
	RoleGain
	RoleInfluence
	RoleEligibility
	RoleExtendedTrace
	RoleTarget
	RoleErrorResponsibility
	RoleProjectedActivity
	RoleGatingActivity
	RoleErrorAccumulator
	RoleGradient
)

func (r Role) String() string {
	switch r {
	case RoleRate:
		return "Rate"
	case RoleActivation:
		return "Activation"
	case RoleDerivative:
		return "Derivative"
	case RoleBias:
		return "Bias"
	case RoleState:
		return "State"
	case RoleOldState:
		return "OldState"
	case RoleWeight:
		return "Weight"
	case RoleGain:
		return "Gain"
	case RoleInfluence:
		return "Influence"
	case RoleEligibility:
		return "Eligibility"
	case RoleExtendedTrace:
		return "ExtendedTrace"
	case RoleTarget:
		return "Target"
	case RoleErrorResponsibility:
		return "ErrorResponsibility"
	case RoleProjectedActivity:
		return "ProjectedActivity"
	case RoleGatingActivity:
		return "GatingActivity"
	case RoleErrorAccumulator:
		return "ErrorAccumulator"
	case RoleGradient:
		return "Gradient"
	default:
		return "Unknown"
	}
}

// maxKeyArity is the most identifiers a key may carry. The compiler's widest
// keys, influence(T, N) and extendedTrace(N, C), use two.
const maxKeyArity = 3

// Key is an ordered tuple of identifiers ending in a role tag. Tag order
// inside a key is significant — Key{A, B, Role} and Key{B, A, Role} are
// distinct keys. Key is comparable and usable directly as a map key.
type Key struct {
	ids  [maxKeyArity]id.ID
	n    uint8
	Role Role
}

// scratch is the fixed sentinel identifier shared by the singleton scratch
// roles (ErrorAccumulator, Gradient, Rate) so that every neuron's compiler
// allocates into the same slot on purpose. Influence is keyed by (gater,
// neighbour) instead, since two distinct gaters can each own a live
// influence value for the same downstream neighbour at once.
var scratch = id.Nil

// NewKey builds a key from the given identifiers (in order) and role.
// At most three identifiers are supported; callers exceeding that is a
// programming error in the compiler, not a runtime condition, so it panics.
func NewKey(role Role, ids ...id.ID) Key {
	if len(ids) > maxKeyArity {
		panic("vartable: key arity exceeds maximum")
	}
	var k Key
	k.Role = role
	k.n = uint8(len(ids))
	copy(k.ids[:], ids)
	return k
}

// ScratchKey builds a key for one of the singleton scratch roles, which
// collide by design across every neuron that allocates them.
func ScratchKey(role Role) Key {
	return NewKey(role, scratch)
}

// IDs returns the identifiers that make up the key, in order.
func (k Key) IDs() []id.ID {
	return append([]id.ID(nil), k.ids[:k.n]...)
}
