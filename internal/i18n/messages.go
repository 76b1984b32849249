package i18n

var defaultMessages = `
[validation.required]
other = "{{.Label}} is required"

[validation.min_length]
other = "{{.Label}} must be at least {{.Count}} characters"

[validation.max_length]
other = "{{.Label}} must be at most {{.Count}} characters"

[validation.email]
other = "Please enter a valid email address"

[validation.phone]
other = "Please enter a valid phone number"

[summary.heading]
one = "There is {{.Count}} error that needs to be fixed"
other = "There are {{.Count}} errors that need to be fixed"

[summary.goto]
other = "Go to field"

[progress.position]
other = "{{.Index}} of {{.Count}} sections"

[field.select_placeholder]
other = "-- Select an option --"

[field.date_hint]
other = "(dd-mm-yyyy)"

[field.counter]
other = "{{.Length}}/{{.Max}} characters"

[action.previous]
other = "Previous"

[action.next]
other = "Next"

[action.submit]
other = "Submit"

[action.back_to_login]
other = "Back to Login"

[action.logout]
other = "Logout"

[action.login]
other = "Start"

[page.loading]
other = "Loading form..."

[page.error_title]
other = "Something went wrong"

[page.success_title]
other = "Form submitted successfully!"

[page.success_redirect]
other = "Redirecting to login in a few seconds..."

[page.login_title]
other = "Welcome"

[login.identity]
other = "Roll Number"

[login.display_name]
other = "Name"

[error.fetch_failed]
other = "Failed to load form. Please try again."

[error.no_sections]
other = "No form sections found"

[error.login_required]
other = "Both roll number and name are required"

[error.register_failed]
other = "Failed to create user"

[theme.toggle]
other = "Toggle theme"
`
