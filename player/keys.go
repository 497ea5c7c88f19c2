package player

// Key names as delivered by KeyboardEvent.key.
const (
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeySpace      = " "
	KeyEscape     = "Escape"
)

// HandleKey applies the keyboard binding for key and reports what the host
// has to do. Unbound keys return EffectNone.
func (p *Player) HandleKey(key string) Effect {
	switch key {
	case KeyArrowRight, KeySpace, "Spacebar", "Space":
		return redrawIf(p.Next())
	case KeyArrowLeft:
		return redrawIf(p.Prev())
	case KeyEscape, "Esc":
		if p.ExitGrid() {
			return EffectRedraw
		}
		if p.Close() {
			return EffectClose
		}
		return EffectNone
	case "f", "F":
		return EffectToggleFullscreen
	case "g", "G":
		if p.EnterGrid() {
			return EffectRedraw
		}
		return redrawIf(p.ExitGrid())
	case "l", "L":
		p.mu.Lock()
		p.laserOn = !p.laserOn
		p.mu.Unlock()
		return EffectRedraw
	}
	return EffectNone
}

func redrawIf(changed bool) Effect {
	if changed {
		return EffectRedraw
	}
	return EffectNone
}
