package validation

import "fmt"

func fallback(id string, data map[string]any) string {
	label, _ := data["Label"].(string)
	switch id {
	case MsgRequired:
		return label + " is required"
	case MsgMinLength:
		return fmt.Sprintf("%s must be at least %v characters", label, data["Count"])
	case MsgMaxLength:
		return fmt.Sprintf("%s must be at most %v characters", label, data["Count"])
	case MsgEmail:
		return "Please enter a valid email address"
	case MsgPhone:
		return "Please enter a valid phone number"
	default:
		return id
	}
}
