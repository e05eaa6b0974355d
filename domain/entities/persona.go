package entities

import "fmt"

// Persona is the simulated conversation partner the user practices with.
type Persona string

const (
	PersonaTutor   Persona = "tutor"
	PersonaWaiter  Persona = "waiter"
	PersonaDoctor  Persona = "doctor"
	PersonaGrocery Persona = "grocery"
)

// ParsePersona maps a raw context tag to a Persona. Unrecognized values,
// including the empty string, degrade to the tutor default rather than
// erroring.
func ParsePersona(context string) Persona {
	switch context {
	case string(PersonaWaiter):
		return PersonaWaiter
	case string(PersonaDoctor):
		return PersonaDoctor
	case string(PersonaGrocery):
		return PersonaGrocery
	default:
		return PersonaTutor
	}
}

// Role returns the system role sentence for the persona.
func (p Persona) Role() string {
	switch p {
	case PersonaWaiter:
		return "You are a Dutch waiter."
	case PersonaDoctor:
		return "You are a Dutch doctor."
	case PersonaGrocery:
		return "You are a cashier."
	default:
		return "You are a friendly Dutch tutor."
	}
}

// BuildPrompt composes the generative-model prompt for one turn. Pure
// function: the same inputs always yield the identical prompt.
//
// With liveFeedback the model is asked for an English grammar correction
// followed by a Dutch reply, in the bracketed [Feedback] [Reply] shape.
// Without it the model simply replies in Dutch to the transcript.
func BuildPrompt(persona Persona, liveFeedback bool, transcript string) string {
	role := persona.Role()

	if liveFeedback {
		return fmt.Sprintf(
			"%s The user is learning Dutch. They said: '%s'. "+
				"1. In ENGLISH, briefly correct grammar errors. "+
				"2. Then reply in DUTCH. Format: [Feedback] [Reply]",
			role, transcript)
	}

	return fmt.Sprintf("%s Reply naturally in Dutch to: '%s'", role, transcript)
}
