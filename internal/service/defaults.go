package service

// defaultExamples are generic B2B SaaS marketing snippets served when no
// stored knowledge is reachable or nothing matches. They keep strategy
// generation grounded in some voice rather than none.
var defaultExamples = []string{
	`Are you still manually pulling data from 5 different tools?

We talked to 200+ startup founders. 73% said they lose 6+ hours per week just gathering basic metrics.

Here's what changed:
→ One dashboard. All your data.
→ Zero SQL required.
→ Insights in minutes, not days.

Try it free for 14 days.`,

	`Question for founders: When was the last time you made a product decision based on data vs. a hunch?

Teams that track retention weekly grow 2.3x faster.

You don't need a data team. You need the right tool.`,

	`Real talk: Most analytics tools were built for enterprises with data teams.

You're a startup. You need something that works today.

✅ Connect in 5 minutes
✅ Pre-built dashboards
✅ Plain English insights`,
}

// DefaultExamples returns a copy of the built-in fallback snippets.
func DefaultExamples() []string {
	out := make([]string, len(defaultExamples))
	copy(out, defaultExamples)
	return out
}
