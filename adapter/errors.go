package adapter

import "fmt"

type errDroppedPayload int

func (e errDroppedPayload) Error() string {
	return fmt.Sprintf("rx buffer full, dropped %d byte payload", int(e))
}
