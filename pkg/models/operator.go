package models

// OperatorKind identifies the scheduler operator used to execute a task.
type OperatorKind string

const (
	OperatorPython         OperatorKind = "PythonOperator"
	OperatorSparkSubmit    OperatorKind = "SparkSubmitOperator"
	OperatorBash           OperatorKind = "BashOperator"
	OperatorCustomTemplate OperatorKind = "CustomTemplate"
)

// OperatorKinds lists every valid operator kind.
func OperatorKinds() []OperatorKind {
	return []OperatorKind{OperatorPython, OperatorSparkSubmit, OperatorBash, OperatorCustomTemplate}
}

// IsValid reports whether k is one of the enumerated operator kinds.
func (k OperatorKind) IsValid() bool {
	switch k {
	case OperatorPython, OperatorSparkSubmit, OperatorBash, OperatorCustomTemplate:
		return true
	}

	return false
}
