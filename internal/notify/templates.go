package notify

type templateSource struct {
	subject string
	body    string
}

var builtinTemplates = map[string]templateSource{
	TemplateNotice: {
		subject: `{{.AppName}}: a notice about your account`,
		body: `Hello {{.Name}},

Our moderators received reports about your job listings on {{.AppName}}.
Please review your postings and make sure they follow the community guidelines.

Likes: {{.TotalLikes}}  Reports: {{.TotalReports}}

If you believe this is a mistake, reply to {{.SupportEmail}}.
`,
	},
	TemplateDeletion: {
		subject: `{{.AppName}}: your listings may be removed`,
		body: `Hello {{.Name}},

Reports about your job listings on {{.AppName}} keep coming in.
If nothing changes, your listings will be removed.

Likes: {{.TotalLikes}}  Reports: {{.TotalReports}}

Contact {{.SupportEmail}} to discuss this decision.
`,
	},
	TemplateBanWarning: {
		subject: `{{.AppName}}: final warning before suspension`,
		body: `Hello {{.Name}},

This is the final warning about your account on {{.AppName}}.
The next moderation step is a permanent ban.

Contact {{.SupportEmail}} if you want to appeal.
`,
	},
	TemplateJobsFrozen: {
		subject: `{{.AppName}}: {{.FrozenCount}} of your job listings were frozen`,
		body: `Hello {{.Name}},

{{.FrozenCount}} of your job listings on {{.AppName}} were frozen by a moderator.
Frozen listings are hidden from applicants until a moderator unfreezes them.

Contact {{.SupportEmail}} for details.
`,
	},
	TemplateVerifyEmail: {
		subject: `Verify your {{.AppName}} email address`,
		body: `Hello,

Confirm your email address by opening the link below:

{{.VerifyURL}}

The link expires in {{.ExpiresIn}}.
`,
	},
}
