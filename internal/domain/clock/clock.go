package clock

type Phase string

const (
	PhaseDay   Phase = "day"
	PhaseNight Phase = "night"
)

const HoursPerDay = 24

const (
	DefaultDayStartHour   = 6
	DefaultNightStartHour = 20
	DefaultCEOCadence     = 3
)

type Config struct {
	DayStartHour   int
	NightStartHour int
	CEOCadence     int
}

// Clock maps simulated hours onto a day/night cycle and the CEO decision cadence.
type Clock struct {
	cfg Config
}

func New(cfg Config) Clock {
	if cfg.DayStartHour < 0 || cfg.DayStartHour >= HoursPerDay {
		cfg.DayStartHour = DefaultDayStartHour
	}
	if cfg.NightStartHour <= cfg.DayStartHour || cfg.NightStartHour >= HoursPerDay {
		cfg.NightStartHour = DefaultNightStartHour
	}
	if cfg.CEOCadence <= 0 {
		cfg.CEOCadence = DefaultCEOCadence
	}
	return Clock{cfg: cfg}
}

// Default is the 06:00-20:00 day with CEOs deciding every third hour. A day
// start of 0 is valid for New, so the defaults are spelled out here.
func Default() Clock {
	return New(Config{
		DayStartHour:   DefaultDayStartHour,
		NightStartHour: DefaultNightStartHour,
		CEOCadence:     DefaultCEOCadence,
	})
}

// Next returns the hour after hour and whether the day rolled over.
func (c Clock) Next(hour int) (int, bool) {
	next := (Normalize(hour) + 1) % HoursPerDay
	return next, next == 0
}

// PhaseAt reports the phase for hour and how many hours remain until it flips.
func (c Clock) PhaseAt(hour int) (Phase, int) {
	h := Normalize(hour)
	if h >= c.cfg.DayStartHour && h < c.cfg.NightStartHour {
		return PhaseDay, c.cfg.NightStartHour - h
	}
	if h >= c.cfg.NightStartHour {
		return PhaseNight, HoursPerDay - h + c.cfg.DayStartHour
	}
	return PhaseNight, c.cfg.DayStartHour - h
}

func (c Clock) IsDecisionHour(hour int) bool {
	return Normalize(hour)%c.cfg.CEOCadence == 0
}

func (c Clock) Cadence() int {
	return c.cfg.CEOCadence
}

func Normalize(hour int) int {
	h := hour % HoursPerDay
	if h < 0 {
		h += HoursPerDay
	}
	return h
}
