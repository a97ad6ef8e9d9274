package api

// validatable is implemented by request types that check their own fields.
type validatable interface {
	Validate() error
}

// requestValidator plugs the request types' own Validate methods into
// echo.Context.Validate.
type requestValidator struct{}

func (requestValidator) Validate(i any) error {
	if v, ok := i.(validatable); ok {
		return v.Validate()
	}
	return nil
}
