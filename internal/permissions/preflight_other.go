//go:build !darwin

package permissions

// Other platforms have no capture or injection grants to check.
func granted(Permission) bool { return true }

func request(Permission) {}
