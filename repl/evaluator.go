package repl

//go:generate mockgen -package=repl -source=./evaluator.go -destination=./evaluator_mock.go
type evaluator interface {
	Evaluate(line string) error
	TypeOf(line string) (string, error)
	Lower(line string) (string, error)
}
