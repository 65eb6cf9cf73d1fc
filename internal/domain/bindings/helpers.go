package bindings

import "fmt"

func (e *RegistrationNewUser) String() string {
	return fmt.Sprintf(
		"%s: user=%s name=%q age=%s",
		e.ContractEventName(),
		e.UserAddress.Hex(),
		e.Name,
		e.Age,
	)
}

func (e *RegistrationNewValue) String() string {
	return fmt.Sprintf(
		"%s: user=%s value=%s",
		e.ContractEventName(),
		e.UserAddress.Hex(),
		e.Value,
	)
}
