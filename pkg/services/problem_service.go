package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Símbolos de las operaciones en el texto mostrado al jugador.
const (
	opAdd = "+"
	opSub = "-"
	opMul = "×"
	opDiv = "÷"
)

// operandRange los operandos libres de suma y resta caen en [-50, 50]
const operandRange = 50

// divisorRange los divisores se eligen en [-12, 12] sin el cero
const divisorRange = 12

// ProblemService genera las expresiones aritméticas de los enemigos.
// Cada expresión evalúa exactamente al valor objetivo con operandos
// enteros; la forma identidad (el número solo) pesa 3:1 contra cada
// operador para que los números planos sigan siendo comunes.
type ProblemService struct {
	rng *rand.Rand
}

// NewProblemService crea el generador con su propia fuente aleatoria.
func NewProblemService(rng *rand.Rand) *ProblemService {
	return &ProblemService{rng: rng}
}

// Generate produce el texto mostrado para un valor objetivo.
func (s *ProblemService) Generate(target int) string {
	// identidad pesa 3, cada operador pesa 1: total 7
	switch s.rng.Intn(7) {
	case 0, 1, 2:
		return strconv.Itoa(target)
	case 3:
		a := s.rng.Intn(2*operandRange+1) - operandRange
		return fmt.Sprintf("%d %s %d", a, opAdd, target-a)
	case 4:
		b := s.rng.Intn(2*operandRange+1) - operandRange
		return fmt.Sprintf("%d %s %d", target+b, opSub, b)
	case 5:
		a, b, ok := s.factorPair(target)
		if !ok {
			// sin pares de factores utilizables: caer a la forma identidad
			return strconv.Itoa(target)
		}
		return fmt.Sprintf("%d %s %d", a, opMul, b)
	default:
		b := s.nonZeroDivisor()
		if target == 0 {
			return fmt.Sprintf("0 %s %d", opDiv, b)
		}
		return fmt.Sprintf("%d %s %d", target*b, opDiv, b)
	}
}

// factorPair elige un par entero (a, b) con a*b == target, incluyendo los
// pares negativos. El cero no tiene par finito bajo la búsqueda ingenua de
// divisores, así que se fuerza un operando a 0.
func (s *ProblemService) factorPair(target int) (int, int, bool) {
	if target == 0 {
		other := s.nonZeroDivisor()
		if s.rng.Intn(2) == 0 {
			return 0, other, true
		}
		return other, 0, true
	}

	abs := target
	if abs < 0 {
		abs = -abs
	}
	type pair struct{ a, b int }
	var pairs []pair
	for d := 1; d <= abs; d++ {
		if abs%d != 0 {
			continue
		}
		pairs = append(pairs, pair{d, target / d})
		pairs = append(pairs, pair{-d, -(target / d)})
	}
	if len(pairs) == 0 {
		return 0, 0, false
	}
	p := pairs[s.rng.Intn(len(pairs))]
	return p.a, p.b, true
}

func (s *ProblemService) nonZeroDivisor() int {
	for {
		b := s.rng.Intn(2*divisorRange+1) - divisorRange
		if b != 0 {
			return b
		}
	}
}

// Evaluate resuelve el texto de una expresión generada. Se usa en la
// verificación de replays y en las pruebas de ida y vuelta del generador.
func Evaluate(displayed string) (int, error) {
	fields := strings.Fields(displayed)
	switch len(fields) {
	case 1:
		return strconv.Atoi(fields[0])
	case 3:
		a, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, fmt.Errorf("operando inválido %q: %v", fields[0], err)
		}
		b, err := strconv.Atoi(fields[2])
		if err != nil {
			return 0, fmt.Errorf("operando inválido %q: %v", fields[2], err)
		}
		switch fields[1] {
		case opAdd:
			return a + b, nil
		case opSub:
			return a - b, nil
		case opMul:
			return a * b, nil
		case opDiv:
			if b == 0 {
				return 0, fmt.Errorf("división entre cero en %q", displayed)
			}
			if a%b != 0 {
				return 0, fmt.Errorf("división no entera en %q", displayed)
			}
			return a / b, nil
		default:
			return 0, fmt.Errorf("operador desconocido %q", fields[1])
		}
	default:
		return 0, fmt.Errorf("expresión inválida %q", displayed)
	}
}
