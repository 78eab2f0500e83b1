package classconfig

// ResolveClass returns the name of the class the given student belongs to
// under this configuration, or "" when no class matches. Classes are checked
// in stored order and the first match wins, so resolution is deterministic
// even for configurations with overlapping assignments.
func (c *Config) ResolveClass(studentID, grade string) string {
	for _, def := range c.Classes {
		switch def.SelectionMode {
		case ModeStudents:
			if containsString(def.Students, studentID) {
				return def.ClassName
			}
		default:
			// grade selection is the historical default for configs saved
			// before selectionMode existed
			if containsString(def.Grades, grade) {
				return def.ClassName
			}
		}
	}
	return ""
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
