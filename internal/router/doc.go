// Package router is the typed surface of the capability registry.
//
// Capabilities are named by Go types. RegisterView[Greeter](reg, p) records p
// as the view provider of Greeter; ToView[Greeter](reg) resolves it back into
// a Handle that can create Greeter destinations:
//
//	reg := registry.New(registry.WithConformanceChecks(true))
//	router.MustRegisterView[greeter.Greeter](reg, &greeter.HelloRouter{})
//	if err := reg.Finish(); err != nil {
//	    return err
//	}
//	h, err := router.ToView[greeter.Greeter](reg)
//	if err != nil {
//	    return err
//	}
//	g, err := h.Make(ctx, nil)
//
// Switchable tokens carry one capability out of a family chosen at run time,
// and the ToDynamic* functions resolve capabilities by canonical name.
package router
