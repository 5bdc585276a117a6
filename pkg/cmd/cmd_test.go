package cmd

import (
	"context"
	"strings"
	"testing"
)

type stub struct {
	name string
	ran  *[]string
}

func (s stub) Name() string        { return s.name }
func (s stub) Description() string { return "stub " + s.name }
func (s stub) Run(_ context.Context, _ *Invocation) error {
	*s.ran = append(*s.ran, s.name)
	return nil
}

type tagged interface{ Tag() string }

type taggedStub struct{ stub }

func (taggedStub) Tag() string { return "inner" }

func tracing(label string, trace *[]string) Middleware {
	return func(c Command) Command {
		return Wrap(c, func(ctx context.Context, inv *Invocation) error {
			*trace = append(*trace, label)
			return c.Run(ctx, inv)
		})
	}
}

func TestRegistryAliases(t *testing.T) {
	var ran []string
	r := NewRegistry()
	if err := r.Register(stub{"Cash", &ran}, "money", "bal"); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, name := range []string{"cash", "CASH", "Money", "bal"} {
		if c := r.Get(name); c == nil || c.Name() != "Cash" {
			t.Fatalf("Get(%q) = %v", name, c)
		}
	}
	if r.Get("nope") != nil {
		t.Fatal("unknown name should resolve to nil")
	}
	if got := r.Aliases("Cash"); strings.Join(got, ",") != "bal,money" {
		t.Fatalf("aliases = %v", got)
	}

	err := r.Register(stub{"Balance", &ran}, "bal")
	if err == nil || !strings.Contains(err.Error(), `"bal"`) {
		t.Fatalf("duplicate alias err = %v", err)
	}
	if r.Get("balance") != nil {
		t.Fatal("failed registration must not leave partial entries")
	}
}

func TestGetAllSorted(t *testing.T) {
	var ran []string
	r := NewRegistry()
	r.MustRegister(stub{"rob", &ran})
	r.MustRegister(stub{"cash", &ran})
	r.MustRegister(stub{"jump", &ran})

	var names []string
	for _, c := range r.GetAll() {
		names = append(names, c.Name())
	}
	if strings.Join(names, ",") != "cash,jump,rob" {
		t.Fatalf("order = %v", names)
	}
}

func TestApplyOrderAndUnwrap(t *testing.T) {
	var trace []string
	base := taggedStub{stub{"jump", &trace}}
	c := Apply(base, tracing("inner", &trace), tracing("outer", &trace))

	if err := c.Run(context.Background(), &Invocation{Name: "jump"}); err != nil {
		t.Fatal(err)
	}
	if strings.Join(trace, ",") != "outer,inner,jump" {
		t.Fatalf("trace = %v", trace)
	}
	if c.Name() != "jump" || c.Description() != "stub jump" {
		t.Fatalf("wrapper should delegate identity, got %q", c.Name())
	}
	if _, ok := Root(c).(taggedStub); !ok {
		t.Fatalf("root = %T", Root(c))
	}
	if tg, ok := As[tagged](c); !ok || tg.Tag() != "inner" {
		t.Fatal("As should find the tagged layer")
	}

	trace = nil
	chained := Chain(tracing("a", &trace), tracing("b", &trace))(base)
	chained.Run(context.Background(), &Invocation{})
	if strings.Join(trace, ",") != "b,a,jump" {
		t.Fatalf("chain trace = %v", trace)
	}
}

func TestInvocationArg(t *testing.T) {
	inv := &Invocation{Args: []string{"@bob", "500"}}
	if inv.Arg(1) != "500" || inv.Arg(2) != "" || inv.Arg(-1) != "" {
		t.Fatal("Arg bounds")
	}
}
