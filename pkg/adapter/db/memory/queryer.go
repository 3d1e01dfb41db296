package memory

// Queryer is the common constraint of Conn and Tx, so the repository
// queries can be implemented once and used on both of them.
type Queryer interface {
	*Conn | *Tx
	view(f func(st *state) error) error
	update(f func(st *state) error) error
}
