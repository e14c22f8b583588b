package medications

import "fmt"

// Enums cerrados con encoding string estable (así se guardan en la tabla).
// El parse es estricto: valor desconocido => error, nunca se deja pasar.

// Form define la presentación del medicamento.
// @Enum TABLET, CAPSULE, SYRUP, INJECTION, CREAM, DROPS, PATCH, OTHER
type Form string

const (
	FormTablet    Form = "TABLET"
	FormCapsule   Form = "CAPSULE"
	FormSyrup     Form = "SYRUP"
	FormInjection Form = "INJECTION"
	FormCream     Form = "CREAM"
	FormDrops     Form = "DROPS"
	FormPatch     Form = "PATCH"
	FormOther     Form = "OTHER"
)

func ParseForm(s string) (Form, error) {
	switch Form(s) {
	case FormTablet, FormCapsule, FormSyrup, FormInjection, FormCream, FormDrops, FormPatch, FormOther:
		return Form(s), nil
	}
	return "", fmt.Errorf("unknown medication form: %q", s)
}

// MealTiming define la relación de la toma con las comidas.
// @Enum BEFORE_MEAL, AFTER_MEAL, WITH_MEAL, ON_EMPTY_STOMACH, ANYTIME
type MealTiming string

const (
	MealBefore       MealTiming = "BEFORE_MEAL"
	MealAfter        MealTiming = "AFTER_MEAL"
	MealWith         MealTiming = "WITH_MEAL"
	MealEmptyStomach MealTiming = "ON_EMPTY_STOMACH"
	MealAnytime      MealTiming = "ANYTIME"
)

func ParseMealTiming(s string) (MealTiming, error) {
	switch MealTiming(s) {
	case MealBefore, MealAfter, MealWith, MealEmptyStomach, MealAnytime:
		return MealTiming(s), nil
	}
	return "", fmt.Errorf("unknown meal timing: %q", s)
}

// ReminderType define cómo suena el recordatorio.
type ReminderType string

const (
	ReminderDefault ReminderType = "DEFAULT"
	ReminderSilent  ReminderType = "SILENT"
	ReminderLoud    ReminderType = "LOUD"
)

func ParseReminderType(s string) (ReminderType, error) {
	switch ReminderType(s) {
	case ReminderDefault, ReminderSilent, ReminderLoud:
		return ReminderType(s), nil
	}
	return "", fmt.Errorf("unknown reminder type: %q", s)
}

// Category agrupa medicamentos por condición tratada.
type Category string

const (
	CategoryDiabetes      Category = "DIABETES"
	CategoryHeart         Category = "HEART"
	CategoryBloodPressure Category = "BLOOD_PRESSURE"
	CategoryPainRelief    Category = "PAIN_RELIEF"
	CategoryVitamins      Category = "VITAMINS"
	CategoryAntibiotics   Category = "ANTIBIOTICS"
	CategoryMentalHealth  Category = "MENTAL_HEALTH"
	CategoryRespiratory   Category = "RESPIRATORY"
	CategoryDigestive     Category = "DIGESTIVE"
	CategoryGeneral       Category = "GENERAL"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryDiabetes, CategoryHeart, CategoryBloodPressure, CategoryPainRelief,
		CategoryVitamins, CategoryAntibiotics, CategoryMentalHealth, CategoryRespiratory,
		CategoryDigestive, CategoryGeneral:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown medication category: %q", s)
}
