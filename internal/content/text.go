package content

// Page copy that does not belong to any listing.
var (
	SiteName = "KusseTechStudio"

	Tagline = "Python Development & Data Solutions"

	AboutMe = `I build software that is useful first and clever second. Most projects start with a
	repetitive task someone is tired of doing by hand and end as a small, dependable tool that runs
	on its own: scrapers that watch prices, dashboards that answer the Monday question before it is
	asked, and integrations that move data between systems nobody wants to copy-paste between.`

	AboutWork = `KusseTechStudio works with Icelandic businesses of every size, from single-person shops
	to regional chains. Engagements are small and focused: a clear problem, a working solution
	within weeks, and documentation so your team can own it afterwards.`

	ContactSuccess = "Thank you %s! Your message has been received. I will get back to you within 24 hours."

	ContactRequired = "All fields are required."
)
