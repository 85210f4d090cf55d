package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"adaptiq/internal/config"
	"adaptiq/internal/model"
	"adaptiq/internal/repository"
)

type seedQuestion struct {
	difficulty    int
	prompt        string
	choices       []string
	correctAnswer string
	tags          []string
}

var questions = []seedQuestion{
	{1, "What is 2 + 2?", []string{"3", "4", "5", "6"}, "4", []string{"math", "basic"}},
	{1, "What color is the sky on a clear day?", []string{"Red", "Blue", "Green", "Yellow"}, "Blue", []string{"general"}},
	{1, "How many days are in a week?", []string{"5", "6", "7", "8"}, "7", []string{"general"}},

	{2, "What is 15 × 3?", []string{"35", "40", "45", "50"}, "45", []string{"math"}},
	{2, "Which planet is known as the Red Planet?", []string{"Venus", "Mars", "Jupiter", "Saturn"}, "Mars", []string{"science"}},
	{2, "What is the capital of France?", []string{"London", "Berlin", "Paris", "Madrid"}, "Paris", []string{"geography"}},

	{3, "What is the square root of 144?", []string{"10", "11", "12", "13"}, "12", []string{"math"}},
	{3, "Who wrote 'Romeo and Juliet'?", []string{"Charles Dickens", "William Shakespeare", "Jane Austen", "Mark Twain"}, "William Shakespeare", []string{"literature"}},
	{3, "What is the chemical symbol for gold?", []string{"Go", "Gd", "Au", "Ag"}, "Au", []string{"science"}},

	{4, "What is 17² (17 squared)?", []string{"269", "279", "289", "299"}, "289", []string{"math"}},
	{4, "In which year did World War II end?", []string{"1943", "1944", "1945", "1946"}, "1945", []string{"history"}},
	{4, "What is the largest ocean on Earth?", []string{"Atlantic", "Indian", "Arctic", "Pacific"}, "Pacific", []string{"geography"}},

	{5, "What is the derivative of x³?", []string{"2x²", "3x²", "x²", "3x"}, "3x²", []string{"math", "calculus"}},
	{5, "Who painted the Mona Lisa?", []string{"Michelangelo", "Leonardo da Vinci", "Raphael", "Donatello"}, "Leonardo da Vinci", []string{"art"}},
	{5, "What is the speed of light in vacuum (approximately)?", []string{"300,000 km/s", "150,000 km/s", "450,000 km/s", "600,000 km/s"}, "300,000 km/s", []string{"science", "physics"}},

	{6, "What is the integral of 2x?", []string{"x²", "x² + C", "2x²", "2x² + C"}, "x² + C", []string{"math", "calculus"}},
	{6, "Which element has the atomic number 79?", []string{"Silver", "Gold", "Platinum", "Mercury"}, "Gold", []string{"science", "chemistry"}},
	{6, "Who developed the theory of general relativity?", []string{"Isaac Newton", "Albert Einstein", "Niels Bohr", "Stephen Hawking"}, "Albert Einstein", []string{"science", "physics"}},

	{7, "What is the solution to the equation: 3x² - 12x + 12 = 0?", []string{"x = 1", "x = 2", "x = 3", "x = 4"}, "x = 2", []string{"math", "algebra"}},
	{7, "What is the Planck constant (approximately)?", []string{"6.626 × 10⁻³⁴ J·s", "3.14 × 10⁻³⁴ J·s", "9.81 × 10⁻³⁴ J·s", "1.602 × 10⁻³⁴ J·s"}, "6.626 × 10⁻³⁴ J·s", []string{"science", "physics"}},
	{7, "In computer science, what does 'NP' stand for in 'NP-complete'?", []string{"Non-Polynomial", "Nondeterministic Polynomial", "Non-Prime", "New Polynomial"}, "Nondeterministic Polynomial", []string{"computer science"}},

	{8, "What is the time complexity of QuickSort in the average case?", []string{"O(n)", "O(n log n)", "O(n²)", "O(log n)"}, "O(n log n)", []string{"computer science", "algorithms"}},
	{8, "What is Euler's identity?", []string{"e^(iπ) + 1 = 0", "e^(iπ) - 1 = 0", "e^(iπ) = 1", "e^(iπ) = -1"}, "e^(iπ) + 1 = 0", []string{"math", "advanced"}},
	{8, "Which programming paradigm does Haskell primarily follow?", []string{"Object-Oriented", "Functional", "Procedural", "Logic"}, "Functional", []string{"computer science", "programming"}},

	{9, "What is the Riemann Hypothesis concerned with?", []string{"Prime numbers", "Complex analysis", "Zeros of zeta function", "All of the above"}, "All of the above", []string{"math", "advanced"}},
	{9, "In quantum mechanics, what does the Schrödinger equation describe?", []string{"Wave function evolution", "Particle position", "Energy levels", "Spin states"}, "Wave function evolution", []string{"science", "physics", "quantum"}},
	{9, "What is the halting problem in computer science?", []string{"A decidable problem", "An undecidable problem", "A P problem", "An NP problem"}, "An undecidable problem", []string{"computer science", "theory"}},

	{10, "What is the Kolmogorov complexity of a string?", []string{"Length of shortest program that produces it", "Number of unique characters", "Entropy of the string", "Hash value"}, "Length of shortest program that produces it", []string{"computer science", "theory", "advanced"}},
	{10, "In category theory, what is a monad?", []string{"A monoid in the category of endofunctors", "A type of functor", "A natural transformation", "A morphism"}, "A monoid in the category of endofunctors", []string{"math", "category theory", "advanced"}},
	{10, "What is the Yang-Mills existence and mass gap problem?", []string{"Solved", "Millennium Prize Problem", "Disproven", "Partially solved"}, "Millennium Prize Problem", []string{"science", "physics", "advanced"}},
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	repo := repository.NewQuestionRepo(db)

	if err := repo.EnsureIndexes(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to create indexes")
	}

	if err := repo.DeleteAll(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to clear questions")
	}
	logrus.Info("cleared existing questions")

	for _, q := range questions {
		question := &model.Question{
			Difficulty:        q.difficulty,
			Prompt:            q.prompt,
			Choices:           q.choices,
			CorrectAnswerHash: model.HashAnswer(q.correctAnswer),
			Tags:              q.tags,
		}
		if err := repo.Create(ctx, question); err != nil {
			logrus.WithError(err).WithField("prompt", q.prompt).Fatal("failed to insert question")
		}
	}

	logrus.WithField("count", len(questions)).Info("seeded questions")
}
