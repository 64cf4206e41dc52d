package outpost

import "fmt"

// An Environment is where the console or the catalog server is deployed.
type Environment string

const (
	Demo        Environment = "DEMO"
	Development Environment = "DEVELOPMENT"
	Production  Environment = "PRODUCTION"
	Review      Environment = "REVIEW"
	Staging     Environment = "STAGING"
	Testing     Environment = "TESTING"
)

func (e Environment) String() string { return string(e) }

// Valid asserts e is one of the known environments.
func (e Environment) Valid() error {
	switch e {
	case Demo, Development, Production, Review, Staging, Testing:
		return nil
	}

	return fmt.Errorf("%w: unknown environment %q", ErrNotValid, string(e))
}

// CanUseServiceStub reports whether services may run without their secrets,
// such as flashes signed with a key generated on start.
func (e Environment) CanUseServiceStub() bool { return e == Demo || e.IsDevelopment() || e.IsTesting() }

func (e Environment) IsDevelopment() bool { return e == Development }
func (e Environment) IsTesting() bool     { return e == Testing }
