package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/garyjia/invoice-wizard/internal/domain/entity"
)

type ctxKey string

func allow(ctx context.Context) bool  { return true }
func refuse(ctx context.Context) bool { return false }

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{entity.StepDocumentType, false},
		{entity.StepClientInfo, false},
		{entity.StepServiceDetails, false},
		{entity.StepTerms, false},
		{entity.StepPreview, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := IsTerminal(tt.state); got != tt.expected {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEditTrigger(t *testing.T) {
	trigger := EditTrigger(entity.StepClientInfo)
	if got := trigger.String(); got != "EDIT_CLIENT_INFO" {
		t.Errorf("EditTrigger() = %v, want EDIT_CLIENT_INFO", got)
	}
}

func TestBuilder_Configure(t *testing.T) {
	builder := NewBuilder()

	config := builder.Configure(entity.StepDocumentType)
	if config == nil {
		t.Fatal("Configure() returned nil")
	}
	if config2 := builder.Configure(entity.StepDocumentType); config != config2 {
		t.Error("Configure() should return same config for same step")
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid step")
		}
	}()

	NewBuilder().Configure(entity.Step(42))
}

func TestBuilder_BuildPanicsOnInvalidInitialState(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Build() should panic on invalid initial step")
		}
	}()

	NewBuilder().Build(entity.Step(-1))
}

func TestStateConfiguration_PermitPanicsOnInvalidState(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic on invalid target step")
		}
	}()

	NewBuilder().Configure(entity.StepTerms).Permit(TriggerNext, entity.Step(7))
}

func TestStateConfiguration_PermitIf(t *testing.T) {
	tests := []struct {
		name      string
		guard     GuardFunc
		wantErr   error
		wantState State
	}{
		{"guard passes", allow, nil, entity.StepServiceDetails},
		{"guard fails", refuse, ErrGuardFailed, entity.StepClientInfo},
		{"no guard", nil, nil, entity.StepServiceDetails},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewBuilder()
			builder.Configure(entity.StepClientInfo).PermitIf(TriggerNext, entity.StepServiceDetails, tt.guard)
			machine := builder.Build(entity.StepClientInfo)

			err := machine.Fire(context.Background(), TriggerNext)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Fire() error = %v, want %v", err, tt.wantErr)
			}
			if machine.State() != tt.wantState {
				t.Errorf("State after Fire() = %v, want %v", machine.State(), tt.wantState)
			}
		})
	}
}

func TestStateConfiguration_PermitIf_MultipleTransitions(t *testing.T) {
	key := ctxKey("skip")
	builder := NewBuilder()
	builder.Configure(entity.StepDocumentType).
		PermitIf(TriggerNext, entity.StepServiceDetails, func(ctx context.Context) bool {
			return ctx.Value(key) == true
		}).
		Permit(TriggerNext, entity.StepClientInfo)

	machine1 := builder.Build(entity.StepDocumentType)
	if err := machine1.Fire(context.WithValue(context.Background(), key, true), TriggerNext); err != nil {
		t.Fatalf("Fire() failed: %v", err)
	}
	if machine1.State() != entity.StepServiceDetails {
		t.Errorf("State = %v, want %v", machine1.State(), entity.StepServiceDetails)
	}

	machine2 := builder.Build(entity.StepDocumentType)
	if err := machine2.Fire(context.Background(), TriggerNext); err != nil {
		t.Fatalf("Fire() failed: %v", err)
	}
	if machine2.State() != entity.StepClientInfo {
		t.Errorf("State = %v, want %v", machine2.State(), entity.StepClientInfo)
	}
}

func TestStateMachine_Fire_InvalidTransition(t *testing.T) {
	machine := NewBuilder().Build(entity.StepDocumentType)

	err := machine.Fire(context.Background(), TriggerBack)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want %v", err, ErrInvalidTransition)
	}
	if machine.State() != entity.StepDocumentType {
		t.Errorf("State should remain %v, got %v", entity.StepDocumentType, machine.State())
	}
}

func TestStateMachine_PermittedTriggers(t *testing.T) {
	machine := NewWizardBuilder(allow).Build(entity.StepClientInfo)

	triggers := machine.PermittedTriggers()
	if len(triggers) != 2 || triggers[0] != TriggerBack || triggers[1] != TriggerNext {
		t.Errorf("PermittedTriggers() = %v, want [BACK NEXT]", triggers)
	}

	if got := NewBuilder().Build(entity.StepTerms).PermittedTriggers(); len(got) != 0 {
		t.Errorf("PermittedTriggers() without configuration = %v, want none", got)
	}
}

func TestStateMachine_Immutability(t *testing.T) {
	builder := NewWizardBuilder(allow)

	machine1 := builder.Build(entity.StepDocumentType)
	machine2 := builder.Build(entity.StepDocumentType)

	if err := machine1.Fire(context.Background(), TriggerNext); err != nil {
		t.Fatalf("Fire() failed: %v", err)
	}
	if machine2.State() != entity.StepDocumentType {
		t.Errorf("machine2 state = %v, want %v (machines should be independent)", machine2.State(), entity.StepDocumentType)
	}
}

func TestWizard_ForwardAndBack(t *testing.T) {
	machine := NewWizardBuilder(allow).Build(entity.FirstStep)

	for _, want := range entity.Steps()[1:] {
		if err := machine.Fire(context.Background(), TriggerNext); err != nil {
			t.Fatalf("Fire(NEXT) failed: %v", err)
		}
		if machine.State() != want {
			t.Errorf("State = %v, want %v", machine.State(), want)
		}
	}

	if !IsTerminal(machine.State()) {
		t.Error("last step should be terminal")
	}
	if err := machine.Fire(context.Background(), TriggerNext); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("NEXT from the last step error = %v, want %v", err, ErrInvalidTransition)
	}

	if err := machine.Fire(context.Background(), TriggerBack); err != nil {
		t.Fatalf("Fire(BACK) failed: %v", err)
	}
	if machine.State() != entity.StepTerms {
		t.Errorf("State = %v, want %v", machine.State(), entity.StepTerms)
	}
}

func TestWizard_NextBlockedByGuard(t *testing.T) {
	machine := NewWizardBuilder(refuse).Build(entity.StepServiceDetails)

	err := machine.Fire(context.Background(), TriggerNext)
	if !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire() error = %v, want %v", err, ErrGuardFailed)
	}
	if err := machine.Fire(context.Background(), TriggerBack); err != nil {
		t.Errorf("BACK should not be guarded: %v", err)
	}
}

func TestWizard_EditFromPreview(t *testing.T) {
	builder := NewWizardBuilder(refuse)

	for _, target := range entity.Steps()[:4] {
		machine := builder.Build(entity.StepPreview)
		if err := machine.Fire(context.Background(), EditTrigger(target)); err != nil {
			t.Fatalf("Fire(%s) failed: %v", EditTrigger(target), err)
		}
		if machine.State() != target {
			t.Errorf("State = %v, want %v", machine.State(), target)
		}
	}

	machine := builder.Build(entity.StepTerms)
	if err := machine.Fire(context.Background(), EditTrigger(entity.StepClientInfo)); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("edit outside preview error = %v, want %v", err, ErrInvalidTransition)
	}
}
