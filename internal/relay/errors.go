package relay

import "fmt"

// DeliveryError marks a failed send to the destination chat. The pipeline
// reports it to the user as a failure instead of a false success ack.
type DeliveryError struct {
	Kind ContentKind
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("relay: deliver %s: %v", e.Kind, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
