package modes

import (
	"testing"

	"github.com/reusee/dscope"
)

// ModuleForProduction provides ModeProduction and a nil *testing.T.
type ModuleForProduction struct {
	dscope.Module
}

func ForProduction() ModuleForProduction {
	return ModuleForProduction{}
}

func (ModuleForProduction) T() *testing.T {
	return nil
}

func (ModuleForProduction) Mode() Mode {
	return ModeProduction
}

// ModuleForDevelopment provides ModeDevelopment outside tests. Runs report
// backtraces in this mode.
type ModuleForDevelopment struct {
	dscope.Module
}

func ForDevelopment() ModuleForDevelopment {
	return ModuleForDevelopment{}
}

func (ModuleForDevelopment) T() *testing.T {
	return nil
}

func (ModuleForDevelopment) Mode() Mode {
	return ModeDevelopment
}

type ModuleForTest struct {
	dscope.Module
	t *testing.T
}

func ForTest(t *testing.T) ModuleForTest {
	return ModuleForTest{
		t: t,
	}
}

func (m ModuleForTest) T() *testing.T {
	return m.t
}

func (m ModuleForTest) Mode() Mode {
	return ModeDevelopment
}
