package model

// Decorator enriches a decoded schema (labels, placeholders, test ids) before
// it is handed to the wizard.
type Decorator interface {
	Decorate(*FormSchema) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormSchema) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *FormSchema) error {
	return fn(form)
}

// ApplyDecorators runs decorators in order, stopping at the first failure.
func ApplyDecorators(form *FormSchema, decorators ...Decorator) error {
	for _, decorator := range decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(form); err != nil {
			return err
		}
	}
	return nil
}

// LabelDecorator fills missing field labels from their ids using
// DefaultLabeler, and missing option labels from their values.
func LabelDecorator() Decorator {
	return DecoratorFunc(func(form *FormSchema) error {
		for i := range form.Sections {
			fields := form.Sections[i].Fields
			for j := range fields {
				if fields[j].Label == "" {
					fields[j].Label = DefaultLabeler(fields[j].ID)
				}
				for k := range fields[j].Options {
					if fields[j].Options[k].Label == "" {
						fields[j].Options[k].Label = fields[j].Options[k].Value
					}
				}
			}
		}
		return nil
	})
}

// TestIDDecorator assigns data-testid hooks to fields and options that do not
// declare one.
func TestIDDecorator() Decorator {
	return DecoratorFunc(func(form *FormSchema) error {
		for i := range form.Sections {
			fields := form.Sections[i].Fields
			for j := range fields {
				if fields[j].DataTestID == "" {
					fields[j].DataTestID = fields[j].ID
				}
				for k := range fields[j].Options {
					if fields[j].Options[k].DataTestID == "" {
						fields[j].Options[k].DataTestID = fields[j].ID + "-" + fields[j].Options[k].Value
					}
				}
			}
		}
		return nil
	})
}
