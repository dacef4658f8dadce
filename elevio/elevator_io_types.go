package elevio

type Dirn int

const (
	D_Down Dirn = -1
	D_Stop Dirn = 0
	D_Up   Dirn = 1
)

// Directions a hall call can carry, in registry order.
var CallDirns = [...]Dirn{D_Up, D_Down}

// Call is a hall request for a car at Floor travelling in Dirn.
type Call struct {
	Floor int  `json:"floor"`
	Dirn  Dirn `json:"direction"`
}

func (d Dirn) String() string {
	return DirnToString(d)
}

func (d Dirn) MarshalText() ([]byte, error) {
	return []byte(DirnToString(d)), nil
}

func (d *Dirn) UnmarshalText(text []byte) error {
	parsed, err := ParseDirn(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
