package model

// PowerUpKind names a one-shot capability a player can spend on another player.
type PowerUpKind string

const (
	PowerUpFreeze PowerUpKind = "freeze"
	PowerUpGloop  PowerUpKind = "gloop"
	PowerUpFlash  PowerUpKind = "flash"
)

// DefaultPowerUps is the inventory every player starts a room with.
func DefaultPowerUps() map[PowerUpKind]bool {
	return map[PowerUpKind]bool{
		PowerUpFreeze: true,
		PowerUpGloop:  true,
		PowerUpFlash:  true,
	}
}

// Valid reports whether k is a known kind.
func (k PowerUpKind) Valid() bool {
	switch k {
	case PowerUpFreeze, PowerUpGloop, PowerUpFlash:
		return true
	}
	return false
}
