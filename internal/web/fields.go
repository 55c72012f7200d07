package web

import "github.com/pr-poehali-dev/license-agreement-generator/internal/models"

// fieldView describes one input of the contract form.
type fieldView struct {
	Key         string
	Label       string
	Placeholder string
	Type        string
	Icon        string
	Value       string
	Invalid     bool
}

var fieldLabels = map[string]fieldView{
	models.FieldContractNumber: {Label: "Номер договора", Icon: "#"},
	models.FieldContractDate:   {Label: "Дата заключения", Icon: "📅"},
	models.FieldCitizenship:    {Label: "Гражданство", Icon: "🌐"},
	models.FieldFullName:       {Label: "ФИО полностью (родительный падеж)", Icon: "👤"},
	models.FieldShortName:      {Label: "ФИО кратко (для подписи)", Icon: "✔"},
	models.FieldNickname:       {Label: "Творческий псевдоним", Icon: "✨"},
	models.FieldPassport:       {Label: "Паспортные данные", Icon: "🪪"},
	models.FieldEmail:          {Label: "Email", Icon: "@", Type: "email"},
}

// formFields prepares the inputs in form order, with the placeholders taken
// from the example filling.
func formFields(data models.ContractForm, invalid []string) []fieldView {
	bad := make(map[string]bool, len(invalid))
	for _, k := range invalid {
		bad[k] = true
	}

	fields := make([]fieldView, 0, len(models.FieldKeys))
	for _, key := range models.FieldKeys {
		f := fieldLabels[key]
		f.Key = key
		if f.Type == "" {
			f.Type = "text"
		}
		f.Placeholder, _ = models.ExampleContractForm.Get(key)
		f.Value, _ = data.Get(key)
		f.Invalid = bad[key]
		fields = append(fields, f)
	}
	return fields
}

// Tabs of the form page.
var formTabs = []string{"form", "instructions", "example", "faq", "contacts"}

func validTab(tab string) string {
	for _, t := range formTabs {
		if t == tab {
			return t
		}
	}
	return "form"
}
